package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/cme-savings-service/internal/pkg/tilemath"
	"github.com/cme-savings-service/internal/pkg/utils"
)

var tileZoom int

var tileCmd = &cobra.Command{
	Use:   "tile <lat,lon>",
	Short: "Web Mercator tile containing a point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePoint(args[0])
		if err != nil {
			return err
		}
		if tileZoom < 0 || tileZoom > tilemath.MaxZoom {
			return fmt.Errorf("zoom must be between 0 and %d", tilemath.MaxZoom)
		}

		t := tilemath.LatLngToTile(p.Lat(), p.Lon(), tileZoom)
		px, py := tilemath.LatLngToPixel(p.Lat(), p.Lon(), tileZoom)
		return printJSON(cmd, map[string]interface{}{
			"tile":  t,
			"path":  t.String(),
			"pixel": []float64{px, py},
		})
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom <lat,lon> [lat,lon...]",
	Short: "Optimal zoom and center for a set of markers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points := make([]orb.Point, 0, len(args))
		for _, a := range args {
			p, err := parsePoint(a)
			if err != nil {
				return err
			}
			points = append(points, p)
		}

		c := tilemath.Center(points)
		return printJSON(cmd, map[string]interface{}{
			"zoom":   tilemath.OptimalZoom(points),
			"center": []float64{c.Lat(), c.Lon()},
		})
	},
}

// parsePoint - "lat,lon" в orb.Point
func parsePoint(s string) (orb.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("invalid point %q: expected lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	if !utils.ValidateCoordinates(lat, lon) {
		return orb.Point{}, fmt.Errorf("coordinates out of range: %q", s)
	}
	return orb.Point{lon, lat}, nil
}

func init() {
	tileCmd.Flags().IntVarP(&tileZoom, "zoom", "z", 13, "zoom level")
	rootCmd.AddCommand(tileCmd, zoomCmd)
}
