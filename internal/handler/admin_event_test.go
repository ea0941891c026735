package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEventReq(t *testing.T) {
	valid := eventReq{Name: "Jazz Night", Date: "2999-05-01", Time: "19:00", EndTime: "22:00", Price: 30}

	cases := []struct {
		name    string
		mutate  func(*eventReq)
		wantErr bool
	}{
		{"valid", func(r *eventReq) {}, false},
		{"free event", func(r *eventReq) { r.Price = 0 }, false},
		{"blank name", func(r *eventReq) { r.Name = "   " }, true},
		{"missing date", func(r *eventReq) { r.Date = "" }, true},
		{"bad date format", func(r *eventReq) { r.Date = "01-05-2999" }, true},
		{"past date", func(r *eventReq) { r.Date = "2001-01-01" }, true},
		{"bad start time", func(r *eventReq) { r.Time = "7pm" }, true},
		{"bad end time", func(r *eventReq) { r.EndTime = "25:00" }, true},
		{"end before start", func(r *eventReq) { r.Time = "22:00"; r.EndTime = "19:00" }, true},
		{"end equals start", func(r *eventReq) { r.EndTime = r.Time }, true},
		{"negative price", func(r *eventReq) { r.Price = -1 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			err := validateEventReq(r)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
