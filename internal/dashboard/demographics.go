package dashboard

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type Segment struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Demographics struct {
	TotalStudents int       `json:"totalStudents"`
	Countries     []Segment `json:"countries"`
	AgeGroups     []Segment `json:"ageGroups"`
	Devices       []Segment `json:"devices"`
	Meta          Meta      `json:"meta"`
}

func (s *Service) Demographics(ctx context.Context) Demographics {
	var demo upstream.Result[upstream.Demographics]
	report := s.run(ctx, ViewDemographics,
		aggregate.Bind(CallDemographics, &demo, s.up.Enrollment.Demographics),
	)

	vm := DefaultDemographics()
	d := demo.Or(upstream.Demographics{})
	vm.Countries = segments(d.Countries)
	vm.AgeGroups = segments(d.AgeGroups)
	vm.Devices = segments(d.Devices)
	for _, c := range vm.Countries {
		vm.TotalStudents += c.Count
	}
	vm.Meta = s.meta(ViewDemographics, nil, report)
	return vm
}

// segments fills in percentages the upstream left out, computed from the counts.
func segments(buckets []upstream.Bucket) []Segment {
	total := 0
	for _, b := range buckets {
		total += b.Count.Int()
	}
	return join.Rows(buckets, func(b upstream.Bucket) Segment {
		pct := b.Percentage.Float()
		if pct == 0 {
			pct = join.Percent(float64(b.Count), float64(total))
		}
		return Segment{Label: b.Label, Count: b.Count.Int(), Percentage: join.Round(pct, 1)}
	})
}
