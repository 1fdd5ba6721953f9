package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/meltforce/rowplan/internal/llm"
	"github.com/meltforce/rowplan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	response string
	err      error

	mu       sync.Mutex
	requests []llm.Request
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Text: m.response, Model: "gemini-3-flash-preview"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

type memRecorder struct {
	records []Record
}

func (r *memRecorder) RecordGeneration(rec Record) {
	r.records = append(r.records, rec)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePeriods() []models.TrainingPeriod {
	return []models.TrainingPeriod{{
		ID:           "p1",
		Name:         "Base",
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-07",
		Distribution: models.DefaultDistribution(),
	}}
}

const replyTwoWorkouts = `[
 {"date":"2024-01-01","intensity":"UT2","description":"60' steady","durationMinutes":60},
 {"date":"2024-01-02","intensity":"AT","description":"3x10' at threshold","durationMinutes":45.5}
]`

func TestGateway_Generate_Success(t *testing.T) {
	client := &mockLLMClient{response: replyTwoWorkouts}
	rec := &memRecorder{}
	g := NewGateway(client, Options{Provider: "gemini", StrictValidation: true, Recorder: rec}, quietLogger())

	plan, err := g.Generate(context.Background(), samplePeriods())

	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, models.GeneratedWorkout{
		Date: "2024-01-01", Intensity: models.IntensityUT2, Description: "60' steady", DurationMinutes: 60,
	}, plan[0])
	assert.Equal(t, 45.5, plan[1].DurationMinutes)

	require.Len(t, client.requests, 1, "exactly one provider call")
	assert.Same(t, planSchema, client.requests[0].Schema)
	assert.Contains(t, client.requests[0].Prompt, `"name":"Base"`)

	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Success)
	assert.Equal(t, 1, rec.records[0].PeriodCount)
	assert.Equal(t, 2, rec.records[0].WorkoutCount)
	assert.Equal(t, "gemini", rec.records[0].Provider)
	assert.Equal(t, "gemini-3-flash-preview", rec.records[0].Model)
}

func TestGateway_Generate_EmptyPeriodsStillCallsProvider(t *testing.T) {
	client := &mockLLMClient{response: `[]`}
	g := NewGateway(client, Options{StrictValidation: true}, quietLogger())

	plan, err := g.Generate(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].Prompt, "training periods: [].")
}

func TestGateway_Generate_DropsExtraKeys(t *testing.T) {
	client := &mockLLMClient{response: `[{"date":"2024-01-01","intensity":"TR","description":"d","durationMinutes":20,"heartRate":150}]`}
	g := NewGateway(client, Options{StrictValidation: true}, quietLogger())

	plan, err := g.Generate(context.Background(), samplePeriods())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, models.IntensityTR, plan[0].Intensity)
}

func TestGateway_Generate_ProviderFailures(t *testing.T) {
	for _, cause := range []error{
		llm.ErrProviderUnavailable,
		llm.ErrTimeout,
		llm.ErrMissingCredential,
		llm.ErrProviderStatus,
	} {
		t.Run(cause.Error(), func(t *testing.T) {
			rec := &memRecorder{}
			g := NewGateway(&mockLLMClient{err: cause}, Options{Recorder: rec}, quietLogger())

			plan, err := g.Generate(context.Background(), samplePeriods())

			assert.Nil(t, plan)
			assert.Equal(t, KindProviderUnavailable, KindOf(err))
			assert.ErrorIs(t, err, cause)
			require.Len(t, rec.records, 1)
			assert.False(t, rec.records[0].Success)
			assert.Equal(t, KindProviderUnavailable, rec.records[0].Kind)
		})
	}
}

func TestGateway_Generate_InvalidShape(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "Sorry, I cannot do that."},
		{"object not array", `{"date":"2024-01-01"}`},
		{"array of numbers", `[1,2,3]`},
		{"null element", `[null]`},
		{"null reply", `null`},
		{"missing field", `[{"date":"2024-01-01","intensity":"UT2","description":"d"}]`},
		{"duration as string", `[{"date":"2024-01-01","intensity":"UT2","description":"d","durationMinutes":"60"}]`},
		{"date as number", `[{"date":20240101,"intensity":"UT2","description":"d","durationMinutes":60}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(&mockLLMClient{response: tt.reply}, Options{StrictValidation: true}, quietLogger())
			_, err := g.Generate(context.Background(), samplePeriods())
			require.Error(t, err)
			assert.Equal(t, KindInvalidResponseShape, KindOf(err))
		})
	}
}

func TestGateway_Generate_InvalidContent(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"unknown intensity", `[{"date":"2024-01-01","intensity":"Z5","description":"d","durationMinutes":60}]`},
		{"malformed date", `[{"date":"01/02/2024","intensity":"UT2","description":"d","durationMinutes":60}]`},
		{"zero duration", `[{"date":"2024-01-01","intensity":"UT2","description":"d","durationMinutes":0}]`},
		{"negative duration", `[{"date":"2024-01-01","intensity":"UT2","description":"d","durationMinutes":-5}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(&mockLLMClient{response: tt.reply}, Options{StrictValidation: true}, quietLogger())
			_, err := g.Generate(context.Background(), samplePeriods())
			require.Error(t, err)
			assert.Equal(t, KindInvalidContent, KindOf(err))
		})
	}
}

func TestGateway_Generate_LenientPassesContentThrough(t *testing.T) {
	reply := `[{"date":"someday","intensity":"Z5","description":"d","durationMinutes":0}]`
	g := NewGateway(&mockLLMClient{response: reply}, Options{StrictValidation: false}, quietLogger())

	plan, err := g.Generate(context.Background(), samplePeriods())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, models.Intensity("Z5"), plan[0].Intensity)
}

func TestGateway_Generate_ConcurrentCallsIndependent(t *testing.T) {
	client := &mockLLMClient{response: replyTwoWorkouts}
	g := NewGateway(client, Options{StrictValidation: true}, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := g.Generate(context.Background(), samplePeriods())
			assert.NoError(t, err)
			assert.Len(t, plan, 2)
		}()
	}
	wg.Wait()
	assert.Len(t, client.requests, 8)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	err := &Error{Kind: KindInvalidContent, Err: errors.New("bad")}
	assert.Equal(t, KindInvalidContent, KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "invalid_content"))
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(samplePeriods())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "Generate a rowing workout schedule based on these training periods: [{"))
	assert.Contains(t, prompt, "(UT2, UT1, AT, TR, AN)")
	assert.Contains(t, prompt, "UT2: Aerobic Base (long, steady).")
	assert.Contains(t, prompt, "AN: Anaerobic.")
	assert.Contains(t, prompt, "rest days, varying intensities")
	assert.Contains(t, prompt, `durationMinutes: 60 }`)
}
