package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/config"
	"github.com/omniprof/omniprof/internal/orchestrator"
)

const targetProgram = `package main

import "fmt"

func compute(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += i * i
	}
	return total
}

func main() {
	fmt.Println(compute(1000))
}
`

func testConfig() *config.Config {
	return &config.Config{
		Profile: config.ProfileConfig{
			TimeoutSeconds: 5,
			HotspotLimit:   10,
			TopAllocators:  5,
		},
		Sampling: config.SamplingConfig{
			Command:        "omniprof-no-such-sampler",
			TimeoutSeconds: 1,
		},
		Tracer: config.TracerConfig{MemProfileRate: 1},
	}
}

func TestProfileSource_EndToEnd(t *testing.T) {
	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileSource(context.Background(), targetProgram, "", orchestrator.Options{})

	require.NotNil(t, rep.StaticAnalysis)
	assert.Contains(t, rep.StaticAnalysis.Complexity, "compute")
	assert.Equal(t, "O(n)", rep.StaticAnalysis.BigO["compute"])

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Empty(t, rep.DynamicAnalysis.Error)
	assert.Contains(t, rep.DynamicAnalysis.Time, "wall_time")
	assert.Contains(t, rep.DynamicAnalysis.Memory, "peak_memory")
	assert.Contains(t, rep.DynamicAnalysis.GC, "collections")

	require.NotNil(t, rep.Hardware)
	assert.Contains(t, rep.Hardware, "cpu_count")

	assert.Nil(t, rep.ScaleneAnalysis)
}

func TestProfileSource_SamplingFailureDegrades(t *testing.T) {
	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileSource(context.Background(), targetProgram, "", orchestrator.Options{Sampling: true})

	require.NotNil(t, rep.ScaleneAnalysis)
	assert.Contains(t, rep.ScaleneAnalysis, "error")

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Nil(t, rep.DynamicAnalysis.Scalene)
	// The measured pass still ran.
	assert.Contains(t, rep.DynamicAnalysis.Time, "wall_time")
}

func TestProfileSource_TargetErrorCaptured(t *testing.T) {
	src := `package main

func main() {
	var s []int
	_ = s[5]
}
`

	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileSource(context.Background(), src, "", orchestrator.Options{})

	require.NotNil(t, rep.DynamicAnalysis)
	assert.NotEmpty(t, rep.DynamicAnalysis.Error)
}

func TestProfileFile_MissingFileIsFatal(t *testing.T) {
	orch := orchestrator.New(testConfig(), nil)

	_, err := orch.ProfileFile(context.Background(), filepath.Join(t.TempDir(), "absent.go"), orchestrator.Options{})

	assert.Error(t, err)
}

func TestProfileFunction_MeasuresSingleCall(t *testing.T) {
	src := `package main

func build() []int {
	out := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		out = append(out, i)
	}
	return out
}

func main() {}
`

	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileFunction(context.Background(), src, "build", "", orchestrator.Options{})

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Empty(t, rep.DynamicAnalysis.Error)
	assert.Contains(t, rep.DynamicAnalysis.Time, "wall_time")
	assert.NotNil(t, rep.DynamicAnalysis.ReturnValue)
}

func TestProfileFunction_UnknownName(t *testing.T) {
	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileFunction(context.Background(), targetProgram, "missing", "", orchestrator.Options{})

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Contains(t, rep.DynamicAnalysis.Error, "not found")
}

func TestProfileFunction_ArgumentsUnsupported(t *testing.T) {
	orch := orchestrator.New(testConfig(), nil)

	rep := orch.ProfileFunction(context.Background(), targetProgram, "compute", "", orchestrator.Options{})

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Contains(t, rep.DynamicAnalysis.Error, "requires")
}

func TestProfileRepository_StaticBreakdown(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "alpha.go", "package alpha\n\nfunc Alpha() int { return 1 }\n")
	writeFile(t, root, "beta.go", "package beta\n\nfunc Beta() int {\n\tfor i := 0; i < 10; i++ {\n\t\t_ = i\n\t}\n\treturn 2\n}\n")
	writeFile(t, root, "notes.txt", "not source\n")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o750))
	writeFile(t, root, filepath.Join("vendor", "dep.go"), "package dep\n")

	orch := orchestrator.New(testConfig(), nil)

	rep, err := orch.ProfileRepository(context.Background(), root, "", orchestrator.Options{})
	require.NoError(t, err)

	assert.Len(t, rep.Files, 2)
	assert.Contains(t, rep.Files, "alpha.go")
	assert.Contains(t, rep.Files, "beta.go")

	require.NotNil(t, rep.Summary)
	assert.Equal(t, 2, rep.Summary["files_analyzed"])
	assert.Equal(t, 2, rep.Summary["total_functions"])
	assert.Nil(t, rep.DynamicAnalysis)
}

func TestProfileRepository_EntryPointProfiledDynamically(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "main.go", targetProgram)

	orch := orchestrator.New(testConfig(), nil)

	rep, err := orch.ProfileRepository(context.Background(), root, "main.go", orchestrator.Options{})
	require.NoError(t, err)

	require.NotNil(t, rep.DynamicAnalysis)
	assert.Contains(t, rep.DynamicAnalysis.Time, "wall_time")
}

func TestProfileRepository_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.go")

	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o600))

	orch := orchestrator.New(testConfig(), nil)

	_, err := orch.ProfileRepository(context.Background(), path, "", orchestrator.Options{})

	assert.Error(t, err)
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o600))
}
