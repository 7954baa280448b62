package upstream

// Set bundles the typed clients for every upstream domain the dashboard reads.
type Set struct {
	Enrollment *EnrollmentClient
	Course     *CourseClient
	Payment    *PaymentClient
	Identity   *IdentityClient
}

func NewSet(enrollment, course, payment, identity Client) Set {
	return Set{
		Enrollment: NewEnrollmentClient(enrollment),
		Course:     NewCourseClient(course),
		Payment:    NewPaymentClient(payment),
		Identity:   NewIdentityClient(identity),
	}
}
