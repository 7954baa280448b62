package dashboard

// Default* return the fully defaulted shape of each view: every number zero and every
// list empty (never null). They double as tab skeletons.

func defaultMeta() Meta {
	return Meta{Failed: []string{}}
}

func DefaultOverview() Overview {
	return Overview{
		Trends:  []Trend{},
		Courses: []CourseRow{},
		Meta:    defaultMeta(),
	}
}

func DefaultEngagement() Engagement {
	return Engagement{
		Weekly:      []WeeklyPoint{},
		Modules:     []ModuleProgressRow{},
		Discussions: []DiscussionRow{},
		Meta:        defaultMeta(),
	}
}

func DefaultStudents() Students {
	return Students{
		TopStudents: []TopStudentRow{},
		Meta:        defaultMeta(),
	}
}

func DefaultDemographics() Demographics {
	return Demographics{
		Countries: []Segment{},
		AgeGroups: []Segment{},
		Devices:   []Segment{},
		Meta:      defaultMeta(),
	}
}

func DefaultFinancials() Financials {
	return Financials{
		RevenueByCourse: []RevenueRow{},
		Meta:            defaultMeta(),
	}
}

func DefaultCourseContent(courseID string) CourseContent {
	return CourseContent{
		CourseID:    courseID,
		Modules:     []ModuleView{},
		Resources:   []ResourceView{},
		Assignments: []AssignmentView{},
		Meta:        defaultMeta(),
	}
}
