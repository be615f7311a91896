package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// seedFile is the YAML layout accepted by `hotelctl seed`:
//
//	rooms:
//	  - number: "101"
//	    type: standard
//	    price: 120
//	    status: available
//	    description: Garden view
type seedFile struct {
	Rooms []seedRoom `yaml:"rooms"`
}

type seedRoom struct {
	Number      string  `yaml:"number"`
	Type        string  `yaml:"type"`
	Price       float64 `yaml:"price"`
	Status      string  `yaml:"status"`
	Description string  `yaml:"description"`
}

// parseSeed decodes and checks a seed file.  Room numbers must be unique
// within the file.
func parseSeed(r io.Reader) ([]model.Room, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	seen := make(map[string]bool, len(f.Rooms))
	rooms := make([]model.Room, 0, len(f.Rooms))
	for i, sr := range f.Rooms {
		num := strings.TrimSpace(sr.Number)
		if num == "" {
			return nil, fmt.Errorf("seed: room %d: number is required", i+1)
		}
		if seen[num] {
			return nil, fmt.Errorf("seed: room %s listed twice", num)
		}
		seen[num] = true

		t := model.RoomType(strings.ToLower(strings.TrimSpace(sr.Type)))
		if !t.Valid() {
			return nil, fmt.Errorf("seed: room %s: unknown type %q", num, sr.Type)
		}
		if sr.Price <= 0 {
			return nil, fmt.Errorf("seed: room %s: price must be positive", num)
		}
		st := model.RoomStatus(strings.ToLower(strings.TrimSpace(sr.Status)))
		if st != "" && !st.Valid() {
			return nil, fmt.Errorf("seed: room %s: unknown status %q", num, sr.Status)
		}

		rm := model.Room{
			RoomNumber:    num,
			RoomType:      t,
			PricePerNight: model.MoneyFromFloat(sr.Price),
			Status:        st,
		}
		if d := strings.TrimSpace(sr.Description); d != "" {
			rm.Description = &d
		}
		rooms = append(rooms, rm)
	}
	return rooms, nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create or update rooms from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()
			rooms, err := parseSeed(fh)
			if err != nil {
				return err
			}

			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewRoomRepo(db)
			ctx := context.Background()
			var created, updated int
			for i := range rooms {
				isNew, err := repo.Upsert(ctx, &rooms[i])
				if err != nil {
					return fmt.Errorf("room %s: %w", rooms[i].RoomNumber, err)
				}
				if isNew {
					created++
				} else {
					updated++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rooms (%d created, %d updated)\n", len(rooms), created, updated)
			return nil
		},
	}
}
