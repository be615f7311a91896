package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

type fakeRooms struct {
	rooms []model.Room
	err   error
}

func (f *fakeRooms) List(_ context.Context, flt repository.RoomFilter) ([]model.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Room
	for _, r := range f.rooms {
		if flt.Status != "" && r.Status != flt.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRooms) GetByNumber(_ context.Context, n string) (model.Room, error) {
	for _, r := range f.rooms {
		if r.RoomNumber == n {
			return r, nil
		}
	}
	return model.Room{}, repository.ErrNotFound
}

// busyRooms marks room ids as booked for every date.
type busyRooms map[string]bool

func (b busyRooms) Available(_ context.Context, id string, _, _ time.Time) (bool, error) {
	return !b[id], nil
}

type failingAvailability struct{}

func (failingAvailability) Available(context.Context, string, time.Time, time.Time) (bool, error) {
	return false, apperr.New(apperr.DataUnavailable, "down")
}

func hotel() *fakeRooms {
	return &fakeRooms{rooms: []model.Room{
		{ID: "s101", RoomNumber: "101", RoomType: model.RoomStandard, Status: model.RoomAvailable},
		{ID: "s102", RoomNumber: "102", RoomType: model.RoomStandard, Status: model.RoomAvailable},
		{ID: "d201", RoomNumber: "201", RoomType: model.RoomDeluxe, Status: model.RoomMaintenance},
		{ID: "d202", RoomNumber: "202", RoomType: model.RoomDeluxe, Status: model.RoomAvailable},
		{ID: "x301", RoomNumber: "301", RoomType: model.RoomSuite, Status: model.RoomAvailable},
	}}
}

func draft(t model.RoomType) Draft {
	return Draft{
		Request:  booking.Request{GuestName: "Ada", CheckInDate: "2024-01-10", CheckOutDate: "2024-01-12"},
		RoomType: t,
	}
}

func TestResolveFallbackPolicy(t *testing.T) {
	cases := []struct {
		name string
		d    Draft
		busy busyRooms
		want string
	}{
		{"category beats lower number", draft(model.RoomDeluxe), nil, "d202"},
		{"skips maintenance", draft(model.RoomDeluxe), nil, "d202"},
		{"skips conflicting room", draft(model.RoomStandard), busyRooms{"s101": true}, "s102"},
		{"category full falls back to any", draft(model.RoomSuite), busyRooms{"x301": true}, "s101"},
		{"no category means any", draft(""), busyRooms{"s101": true}, "s102"},
		{"explicit id wins", func() Draft { d := draft(model.RoomStandard); d.Request.RoomID = "x301"; return d }(), nil, "x301"},
		{"room number wins", func() Draft { d := draft(model.RoomStandard); d.RoomNumber = "301"; return d }(), nil, "x301"},
		{"unknown number falls back", func() Draft { d := draft(model.RoomSuite); d.RoomNumber = "999"; return d }(), nil, "x301"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatcher(hotel(), tc.busy)
			req, err := m.Resolve(context.Background(), tc.d)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if req.RoomID != tc.want {
				t.Fatalf("room = %s, want %s", req.RoomID, tc.want)
			}
		})
	}
}

func TestResolveNothingFree(t *testing.T) {
	m := NewMatcher(hotel(), busyRooms{"s101": true, "s102": true, "d202": true, "x301": true})
	_, err := m.Resolve(context.Background(), draft(model.RoomSuite))
	if !errors.Is(err, apperr.RoomUnavailable) || apperr.Message(err, "") != "No rooms available for the selected dates" {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveFailsClosed(t *testing.T) {
	m := NewMatcher(hotel(), failingAvailability{})
	if _, err := m.Resolve(context.Background(), draft(model.RoomSuite)); !errors.Is(err, apperr.DataUnavailable) {
		t.Fatalf("err = %v", err)
	}
	broken := &fakeRooms{err: errors.New("db down")}
	if _, err := NewMatcher(broken, busyRooms{}).Resolve(context.Background(), draft("")); !errors.Is(err, apperr.DataUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveValidatesDates(t *testing.T) {
	m := NewMatcher(hotel(), busyRooms{})
	d := draft("")
	d.Request.CheckOutDate = d.Request.CheckInDate
	if _, err := m.Resolve(context.Background(), d); !errors.Is(err, apperr.InvalidDateRange) {
		t.Fatalf("err = %v", err)
	}
	d.Request.CheckOutDate = ""
	if _, err := m.Resolve(context.Background(), d); !errors.Is(err, apperr.MissingField) {
		t.Fatalf("err = %v", err)
	}
}

// countingRooms and countingAvailability record every store call.
type countingRooms struct {
	*fakeRooms
	calls int
}

func (c *countingRooms) List(ctx context.Context, f repository.RoomFilter) ([]model.Room, error) {
	c.calls++
	return c.fakeRooms.List(ctx, f)
}

func (c *countingRooms) GetByNumber(ctx context.Context, n string) (model.Room, error) {
	c.calls++
	return c.fakeRooms.GetByNumber(ctx, n)
}

type countingAvailability struct{ calls int }

func (c *countingAvailability) Available(context.Context, string, time.Time, time.Time) (bool, error) {
	c.calls++
	return true, nil
}

func TestResolveRejectsBeforeStoreCalls(t *testing.T) {
	cases := []struct {
		name string
		edit func(d *Draft)
		want error
	}{
		{"inverted dates with room number", func(d *Draft) {
			d.RoomNumber = "301"
			d.Request.CheckInDate, d.Request.CheckOutDate = "2024-01-13", "2024-01-10"
		}, apperr.InvalidDateRange},
		{"malformed date", func(d *Draft) { d.Request.CheckInDate = "13/01/2024" }, apperr.InvalidDateRange},
		{"missing guest name", func(d *Draft) { d.Request.GuestName = "  " }, apperr.MissingField},
		{"missing check-out with explicit room", func(d *Draft) {
			d.Request.RoomID = "x301"
			d.Request.CheckOutDate = ""
		}, apperr.MissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rooms := &countingRooms{fakeRooms: hotel()}
			avail := &countingAvailability{}
			d := draft(model.RoomSuite)
			tc.edit(&d)
			_, err := NewMatcher(rooms, avail).Resolve(context.Background(), d)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if rooms.calls != 0 || avail.calls != 0 {
				t.Fatalf("store reached: rooms = %d availability = %d", rooms.calls, avail.calls)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	cfg := config.AgentConfig{
		AgentID:              "agent_123",
		HotelName:            "HotelHub PMS",
		CheckInTime:          "14:00",
		CheckOutTime:         "11:00",
		CancellationDeadline: "24 hours before check-in",
		MinStay:              1,
	}
	info, err := Snapshot(context.Background(), hotel(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	hd := info.ClientData.HotelData
	if info.AgentID != "agent_123" || hd.HotelName != "HotelHub PMS" || len(hd.Rooms) != 4 {
		t.Fatalf("info = %+v", info)
	}
	if hd.Policies.MinStay != 1 || hd.CheckOutTime != "11:00" {
		t.Fatalf("policies = %+v", hd)
	}

	cfg.AgentID = ""
	if _, err := Snapshot(context.Background(), hotel(), cfg); !errors.Is(err, apperr.ConfigurationMissing) {
		t.Fatalf("err = %v", err)
	}
}

type fakeBooker struct{ got []booking.Request }

func (f *fakeBooker) Book(_ context.Context, r booking.Request) (booking.Outcome, error) {
	f.got = append(f.got, r)
	return booking.Outcome{State: booking.Committed, ReservationID: "res-1"}, nil
}

func TestIntakeHandle(t *testing.T) {
	b := &fakeBooker{}
	in := NewIntake(NewMatcher(hotel(), busyRooms{}), b)

	res, err := in.Handle(context.Background(), []byte(`{"tool_call":{"parameters":{"name":"Ada","room_type":"suite","check_in":"2024-01-10","check_out":"2024-01-12",}}}`))
	if err != nil || !res.Success || res.ReservationID != "res-1" {
		t.Fatalf("res = %+v err = %v", res, err)
	}
	if len(b.got) != 1 || b.got[0].RoomID != "x301" {
		t.Fatalf("booked = %+v", b.got)
	}

	res, err = in.Handle(context.Background(), []byte(`{"hello":"world"}`))
	if err == nil || res.Success || res.Error != "Unrecognized agent payload" {
		t.Fatalf("res = %+v err = %v", res, err)
	}
}
