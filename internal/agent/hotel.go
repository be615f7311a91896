package agent

import (
	"context"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// RoomInfo is what the agent is told about a bookable room.
type RoomInfo struct {
	ID            string         `json:"id"`
	RoomNumber    string         `json:"roomNumber"`
	RoomType      model.RoomType `json:"roomType"`
	PricePerNight model.Money    `json:"pricePerNight"`
	Description   *string        `json:"description,omitempty"`
}

type Policies struct {
	CancellationDeadline string `json:"cancellationDeadline"`
	MinStay              int    `json:"minStay"`
}

// HotelData is the hotel snapshot handed to the agent at session start.
type HotelData struct {
	HotelName    string     `json:"hotelName"`
	Rooms        []RoomInfo `json:"rooms"`
	CheckInTime  string     `json:"checkInTime"`
	CheckOutTime string     `json:"checkOutTime"`
	Policies     Policies   `json:"policies"`
}

type ClientData struct {
	HotelData HotelData `json:"hotelData"`
}

// SessionInfo is the payload the client needs to start the voice widget.
type SessionInfo struct {
	AgentID    string     `json:"agentId"`
	ClientData ClientData `json:"clientData"`
}

// Snapshot builds the session payload from the rooms that are currently
// available.
func Snapshot(ctx context.Context, rooms RoomLister, cfg config.AgentConfig) (SessionInfo, error) {
	if cfg.AgentID == "" {
		return SessionInfo{}, apperr.New(apperr.ConfigurationMissing, "Agent ID not configured")
	}
	list, err := rooms.List(ctx, repository.RoomFilter{Status: model.RoomAvailable})
	if err != nil {
		return SessionInfo{}, apperr.Wrap(apperr.DataUnavailable, "Could not load rooms", err)
	}
	info := make([]RoomInfo, 0, len(list))
	for _, rm := range list {
		info = append(info, RoomInfo{
			ID:            rm.ID,
			RoomNumber:    rm.RoomNumber,
			RoomType:      rm.RoomType,
			PricePerNight: rm.PricePerNight,
			Description:   rm.Description,
		})
	}
	return SessionInfo{
		AgentID: cfg.AgentID,
		ClientData: ClientData{HotelData: HotelData{
			HotelName:    cfg.HotelName,
			Rooms:        info,
			CheckInTime:  cfg.CheckInTime,
			CheckOutTime: cfg.CheckOutTime,
			Policies: Policies{
				CancellationDeadline: cfg.CancellationDeadline,
				MinStay:              cfg.MinStay,
			},
		}},
	}, nil
}
