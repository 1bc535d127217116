package hotspot

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/google/pprof/profile"
)

// DefaultLimit caps the hotspot summary when callers pass no limit.
const DefaultLimit = 10

// nanosPerSecond converts profile sample values to seconds.
const nanosPerSecond = 1e9

// millisRoundPlaces is the precision of per-line timing fields.
const millisRoundPlaces = 3

// interpreterPathFragment marks frames belonging to the embedded
// interpreter rather than the target program.
const interpreterPathFragment = "github.com/traefik/yaegi"

// functionStat aggregates one function's samples.
type functionStat struct {
	name      string
	file      string
	startLine int64
	samples   int64
	flat      int64
	cum       int64
	lines     map[int64]*lineStat
}

type lineStat struct {
	hits int64
	flat int64
}

// LineStat is the per-source-line timing detail of one function.
type LineStat struct {
	Hits       int64   `json:"hits"`
	TotalTime  float64 `json:"total_time"`
	TimePerHit float64 `json:"time_per_hit"`
}

// FunctionProfile is the line-level timing detail of one function, keyed
// by (file, first line, name) at collection time.
type FunctionProfile struct {
	Filename   string              `json:"filename"`
	Lines      map[string]LineStat `json:"lines"`
	TotalCalls int64               `json:"total_calls"`
	TotalTime  float64             `json:"total_time"`
}

// TopFunctions emits the formatted hotspot summary lines of the profile,
// sorted by cumulative time descending, at most limit entries. Each line
// carries sample count, flat seconds, cumulative seconds, and location.
func TopFunctions(prof *profile.Profile, limit int) []string {
	if prof == nil {
		return nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	stats := aggregate(prof)

	ordered := make([]*functionStat, 0, len(stats))
	for _, stat := range stats {
		ordered = append(ordered, stat)
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].cum != ordered[j].cum {
			return ordered[i].cum > ordered[j].cum
		}

		return ordered[i].name < ordered[j].name
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	lines := make([]string, 0, len(ordered))
	for _, stat := range ordered {
		lines = append(lines, fmt.Sprintf("%d %.6f %.6f %s:%d(%s)",
			stat.samples,
			float64(stat.flat)/nanosPerSecond,
			float64(stat.cum)/nanosPerSecond,
			stat.file,
			stat.startLine,
			stat.name,
		))
	}

	return lines
}

// LineProfiles builds per-function line-level detail from the profile.
// Frames in synthetic, standard-library, or interpreter locations are
// excluded. When allow is non-nil it further restricts which function
// names are retained (used to keep only discovered user callables).
func LineProfiles(prof *profile.Profile, allow func(name string) bool) map[string]FunctionProfile {
	if prof == nil {
		return map[string]FunctionProfile{}
	}

	result := make(map[string]FunctionProfile)

	for _, stat := range aggregate(prof) {
		if excludedPath(stat.file) {
			continue
		}

		if allow != nil && !allow(stat.name) {
			continue
		}

		fp := FunctionProfile{
			Filename:   stat.file,
			Lines:      make(map[string]LineStat, len(stat.lines)),
			TotalCalls: stat.samples,
			TotalTime:  float64(stat.flat) / nanosPerSecond,
		}

		for line, ls := range stat.lines {
			totalMillis := roundTo(float64(ls.flat)/1e6, millisRoundPlaces)

			perHit := 0.0
			if ls.hits > 0 {
				perHit = roundTo(totalMillis/float64(ls.hits), millisRoundPlaces)
			}

			fp.Lines[fmt.Sprintf("%d", line)] = LineStat{
				Hits:       ls.hits,
				TotalTime:  totalMillis,
				TimePerHit: perHit,
			}
		}

		result[stat.name] = fp
	}

	return result
}

// aggregate folds the profile samples into per-function statistics. The
// leaf frame of a sample accrues flat time and hits; every distinct
// function in the stack accrues cumulative time once per sample.
func aggregate(prof *profile.Profile) map[string]*functionStat {
	valueIndex := sampleValueIndex(prof)
	countIndex := sampleCountIndex(prof)
	stats := make(map[string]*functionStat)

	for _, sample := range prof.Sample {
		if len(sample.Value) <= valueIndex {
			continue
		}

		value := sample.Value[valueIndex]
		count := int64(1)

		if countIndex >= 0 && countIndex < len(sample.Value) {
			count = sample.Value[countIndex]
		}

		seen := make(map[string]bool)
		leaf := true

		for _, loc := range sample.Location {
			for _, line := range loc.Line {
				if line.Function == nil {
					continue
				}

				stat := ensureStat(stats, line.Function)

				if !seen[line.Function.Name] {
					stat.cum += value
					seen[line.Function.Name] = true
				}

				if leaf {
					stat.flat += value
					stat.samples += count

					ls := stat.lines[line.Line]
					if ls == nil {
						ls = &lineStat{}
						stat.lines[line.Line] = ls
					}

					ls.hits += count
					ls.flat += value
					leaf = false
				}
			}
		}
	}

	return stats
}

func ensureStat(stats map[string]*functionStat, fn *profile.Function) *functionStat {
	stat := stats[fn.Name]
	if stat == nil {
		stat = &functionStat{
			name:      fn.Name,
			file:      fn.Filename,
			startLine: fn.StartLine,
			lines:     make(map[int64]*lineStat),
		}
		stats[fn.Name] = stat
	}

	return stat
}

// sampleValueIndex picks the cpu-time value column, falling back to the
// last column, which pprof convention reserves for the primary metric.
func sampleValueIndex(prof *profile.Profile) int {
	for i, st := range prof.SampleType {
		if st.Type == "cpu" {
			return i
		}
	}

	return len(prof.SampleType) - 1
}

func sampleCountIndex(prof *profile.Profile) int {
	for i, st := range prof.SampleType {
		if st.Type == "samples" {
			return i
		}
	}

	return -1
}

// excludedPath reports whether a file path belongs to a synthetic,
// standard-library, or interpreter location.
func excludedPath(file string) bool {
	if file == "" || strings.HasPrefix(file, "<") {
		return true
	}

	if goroot := runtime.GOROOT(); goroot != "" && strings.HasPrefix(file, goroot) {
		return true
	}

	return strings.Contains(file, interpreterPathFragment) ||
		strings.Contains(file, "/go/src/runtime/")
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))

	return math.Round(v*factor) / factor
}
