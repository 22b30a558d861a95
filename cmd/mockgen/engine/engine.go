package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"mlbvalue-mcp/internal/ingest"
)

// Teams is the 30-club league the generator draws from.
var Teams = []string{
	"ARI", "ATL", "BAL", "BOS", "CHC", "CHW", "CIN", "CLE", "COL", "DET",
	"HOU", "KCR", "LAA", "LAD", "MIA", "MIL", "MIN", "NYM", "NYY", "OAK",
	"PHI", "PIT", "SDP", "SEA", "SFG", "STL", "TBR", "TEX", "TOR", "WSN",
}

// MultiTeam marks a player traded mid-season.
const MultiTeam = ingest.TeamSentinel

type GeneratorConfig struct {
	Scenario     string // "market", "chaos" or "inflated"
	Distribution string // "uniform" or "weibull"
	Count        int
	Seed         int64
	// Aliases writes the raw collection headers (Player, Team_performance, numeric
	// fielding codes) instead of the canonical ones.
	Aliases bool
}

// Player is one generated row.
type Player struct {
	Name     string
	Team     string
	Position string
	WAR      float64
	Salary   float64
	HR       int
	RBI      int
}

var firstNames = []string{"Aaron", "Bo", "Carlos", "Derek", "Eli", "Freddie", "Gleyber", "Hunter", "Ian", "Jose", "Kyle", "Luis", "Manny", "Nolan", "Ozzie", "Pete"}
var lastNames = []string{"Alvarez", "Bichette", "Castro", "Diaz", "Escobar", "Franco", "Garcia", "Harper", "Iglesias", "Judge", "Kirk", "Lindor", "Machado", "Nimmo", "Ohtani", "Perez"}

// Generate draws cfg.Count players. The same seed always yields the same rows.
func Generate(cfg GeneratorConfig) []Player {
	rng := rand.New(rand.NewSource(cfg.Seed))
	players := make([]Player, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		// 1. Performance: most players near replacement level, a thin star tail
		war := rng.NormFloat64()*1.6 + 1.2
		if cfg.Distribution == "weibull" {
			war = weibullSample(rng, 1.4, 2.2) - 0.5
		}
		war = math.Round(war*10) / 10

		// 2. Salary against performance
		var salary float64
		switch cfg.Scenario {
		case "chaos":
			salary = 0.74 + rng.Float64()*30
		case "inflated":
			salary = 1.5 * (3 + 4*math.Max(war, 0) + rng.NormFloat64()*3)
			if rng.Float64() < 0.1 {
				salary += 15 + rng.Float64()*20 // long contracts signed before a decline
			}
		default:
			salary = 2 + 3.5*math.Max(war, 0) + rng.NormFloat64()*2.5
		}
		if cfg.Distribution == "weibull" && rng.Float64() < 0.15 {
			salary += weibullSample(rng, 0.9, 8)
		}
		salary = math.Round(math.Max(salary, 0.74)*100) / 100

		team := Teams[rng.Intn(len(Teams))]
		if rng.Float64() < 0.04 {
			team = MultiTeam
		}
		code := rng.Intn(10) + 1
		pos := strconv.Itoa(code)
		if !cfg.Aliases {
			pos = ingest.MapPosition(pos)
		}

		hr, rbi := 0, 0
		if code != 1 {
			hr = int(math.Max(0, 4*war+rng.NormFloat64()*5+8))
			rbi = int(math.Max(0, 3*float64(hr)+rng.NormFloat64()*10))
		}

		players = append(players, Player{
			Name:     fmt.Sprintf("%s %s %d", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))], i+1),
			Team:     team,
			Position: pos,
			WAR:      war,
			Salary:   salary,
			HR:       hr,
			RBI:      rbi,
		})
	}
	return players
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes players as the merged performance/salary CSV under outDir and returns its path.
func Save(outDir string, players []Player, aliases bool) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, ingest.DefaultFileName)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := []string{"Name", "Team", "Position", "WAR", "Salary_millions", "HR", "RBI"}
	if aliases {
		header = []string{"Player", "Team_performance", "Position_salary", "WAR", "salary_millions", "HR", "RBI"}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, p := range players {
		rec := []string{
			p.Name, p.Team, p.Position,
			strconv.FormatFloat(p.WAR, 'f', 1, 64),
			strconv.FormatFloat(p.Salary, 'f', 2, 64),
			strconv.Itoa(p.HR), strconv.Itoa(p.RBI),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, f.Close()
}
