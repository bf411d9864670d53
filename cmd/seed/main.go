// Command seed loads geofence, time-window and student fixtures from a YAML
// file into the database. Intended for fresh deployments and demo
// environments; replacing time windows is destructive and requires
// --confirm.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	fixturesPath = flag.String("fixtures", "", "Path to the YAML fixtures file (required)")
	dsn          = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun       = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm      = flag.Bool("confirm", false, "Required to replace existing time windows")
	advisoryKey  = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
)

type GeofenceFixture struct {
	Name    string      `yaml:"name"`
	MarginM int         `yaml:"margin_m"`
	Ring    [][]float64 `yaml:"polygon"` // exterior ring, [lon, lat] pairs
}

type WindowFixture struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type StudentFixture struct {
	Matricule string `yaml:"matricule"`
	LastName  string `yaml:"nom"`
	FirstName string `yaml:"prenom"`
}

type Fixtures struct {
	Geofences   []GeofenceFixture `yaml:"geofences"`
	TimeWindows []WindowFixture   `yaml:"time_windows"`
	Students    []StudentFixture  `yaml:"students"`
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *fixturesPath == "" {
		fatalf("--fixtures is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	raw, err := os.ReadFile(*fixturesPath)
	if err != nil {
		fatalf("read fixtures: %v", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		fatalf("parse fixtures: %v", err)
	}
	if err := validate(fx); err != nil {
		fatalf("invalid fixtures: %v", err)
	}

	fmt.Printf("fixtures: %d geofences, %d time windows, %d students\n",
		len(fx.Geofences), len(fx.TimeWindows), len(fx.Students))
	if *dryRun {
		fmt.Println("dry run: no writes performed")
		return
	}
	if len(fx.TimeWindows) > 0 && !*confirm {
		fatalf("replacing time windows is destructive; re-run with --confirm")
	}

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		fatalf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	if err := seed(ctx, tx, fx); err != nil {
		fatalf("seed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("seed complete")
}

func validate(fx Fixtures) error {
	for _, g := range fx.Geofences {
		if g.Name == "" {
			return fmt.Errorf("geofence with empty name")
		}
		if g.MarginM < 0 {
			return fmt.Errorf("geofence %q: negative margin", g.Name)
		}
		if len(g.Ring) < 3 {
			return fmt.Errorf("geofence %q: ring needs at least 3 vertices", g.Name)
		}
		for _, pos := range g.Ring {
			if len(pos) != 2 {
				return fmt.Errorf("geofence %q: positions must be [lon, lat]", g.Name)
			}
			if pos[1] < -90 || pos[1] > 90 || pos[0] < -180 || pos[0] > 180 {
				return fmt.Errorf("geofence %q: coordinate out of range", g.Name)
			}
		}
	}
	for _, w := range fx.TimeWindows {
		if w.Name == "" || w.Start == "" || w.End == "" {
			return fmt.Errorf("time window needs name, start and end")
		}
	}
	for _, s := range fx.Students {
		if s.Matricule == "" {
			return fmt.Errorf("student with empty matricule")
		}
	}
	return nil
}

func seed(ctx context.Context, tx *sql.Tx, fx Fixtures) error {
	for _, g := range fx.Geofences {
		wkt := ringWKT(g.Ring)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance.geofences (name, polygon, margin_m)
			VALUES ($1, ST_GeogFromText($2), $3)
			ON CONFLICT (name) DO UPDATE
			SET polygon = EXCLUDED.polygon,
			    margin_m = EXCLUDED.margin_m,
			    updated_at = CURRENT_TIMESTAMP
		`, g.Name, wkt, g.MarginM); err != nil {
			return fmt.Errorf("geofence %q: %w", g.Name, err)
		}
	}

	if len(fx.TimeWindows) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendance.time_windows`); err != nil {
			return fmt.Errorf("clear time windows: %w", err)
		}
		for _, w := range fx.TimeWindows {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO attendance.time_windows (name, start_time, end_time)
				VALUES ($1, $2::time, $3::time)
			`, w.Name, w.Start, w.End); err != nil {
				return fmt.Errorf("time window %q: %w", w.Name, err)
			}
		}
	}

	for _, s := range fx.Students {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance.students (matricule, nom, prenom)
			VALUES ($1, $2, $3)
			ON CONFLICT (matricule) DO NOTHING
		`, s.Matricule, s.LastName, s.FirstName); err != nil {
			return fmt.Errorf("student %q: %w", s.Matricule, err)
		}
	}

	return nil
}

// ringWKT closes the ring if needed and renders POLYGON((lon lat, ...)).
func ringWKT(ring [][]float64) string {
	closed := ring
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		closed = append(closed, first)
	}
	coords := make([]string, 0, len(closed))
	for _, pos := range closed {
		coords = append(coords, fmt.Sprintf("%v %v", pos[0], pos[1]))
	}
	return fmt.Sprintf("POLYGON((%s))", strings.Join(coords, ", "))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
