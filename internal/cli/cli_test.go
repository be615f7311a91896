package cli

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

func TestParseSeed(t *testing.T) {
	src := `
rooms:
  - number: "101"
    type: Standard
    price: 120
    description: Garden view
  - number: "201"
    type: suite
    price: 349.99
    status: maintenance
`
	rooms, err := parseSeed(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 2 {
		t.Fatalf("got %d rooms", len(rooms))
	}
	if rooms[0].RoomType != model.RoomStandard || rooms[0].PricePerNight != 12000 || rooms[0].Status != "" {
		t.Fatalf("room 101 = %+v", rooms[0])
	}
	if rooms[0].Description == nil || *rooms[0].Description != "Garden view" {
		t.Fatalf("description = %v", rooms[0].Description)
	}
	if rooms[1].PricePerNight != 34999 || rooms[1].Status != model.RoomMaintenance {
		t.Fatalf("room 201 = %+v", rooms[1])
	}
}

func TestParseSeedRejects(t *testing.T) {
	tests := map[string]string{
		"missing number": "rooms:\n  - type: suite\n    price: 10\n",
		"bad type":       "rooms:\n  - number: \"1\"\n    type: villa\n    price: 10\n",
		"zero price":     "rooms:\n  - number: \"1\"\n    type: suite\n    price: 0\n",
		"bad status":     "rooms:\n  - number: \"1\"\n    type: suite\n    price: 10\n    status: dirty\n",
		"duplicate":      "rooms:\n  - number: \"1\"\n    type: suite\n    price: 10\n  - number: \"1\"\n    type: deluxe\n    price: 20\n",
		"unknown field":  "rooms:\n  - number: \"1\"\n    type: suite\n    price: 10\n    floor: 3\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseSeed(strings.NewReader(src)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestStaffRole(t *testing.T) {
	for in, want := range map[string]string{"admin": model.RoleAdmin, " front_desk ": model.RoleFrontDesk, "front-desk": model.RoleFrontDesk} {
		got, err := staffRole(in)
		if err != nil || got != want {
			t.Fatalf("staffRole(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := staffRole(model.RoleAgent); err == nil {
		t.Fatal("AGENT must not be a staff role")
	}
}

func TestBookFlagsRequest(t *testing.T) {
	f := bookFlags{guest: "Ann", room: "r1", in: "2024-03-15", out: "2024-03-18", total: -1}
	req := f.request()
	if req.TotalAmount != nil || req.Source != "cli" || req.RoomID != "r1" {
		t.Fatalf("request = %+v", req)
	}
	f.total = 250
	if req := f.request(); req.TotalAmount == nil || *req.TotalAmount != 250 {
		t.Fatalf("total not carried: %+v", req)
	}
}

func TestKeysPrintsTwoKeys(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"keys"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q", out.String())
	}
	for _, l := range lines {
		_, val, ok := strings.Cut(l, "=")
		if !ok {
			t.Fatalf("line %q", l)
		}
		b, err := base64.StdEncoding.DecodeString(val)
		if err != nil || len(b) != 32 {
			t.Fatalf("key %q: %d bytes, %v", val, len(b), err)
		}
	}
}

func TestVersion(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "hotelctl dev") {
		t.Fatalf("version = %q", out.String())
	}
}
