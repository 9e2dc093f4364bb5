package codegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/loopkit/core"
)

type fields struct{}

func stepCtx(prev core.StepOutcome, ch *core.Channels) *core.Context[fields] {
	if ch == nil {
		ch = core.NewChannels()
	}
	return core.NewContext(core.ContextSeed[fields]{
		Prev:     prev,
		Fields:   &fields{},
		Channels: ch,
	})
}

func TestActionRendersVarsPrevAndEnv(t *testing.T) {
	var seen string
	p := ProviderFunc(func(prompt string) (string, error) {
		seen = prompt
		return "generated", nil
	})

	op := Action[fields](p, Template{
		Name: "summarize",
		Text: "topic={{.topic}} prev={{.prev}} env={{.env}}",
		Vars: map[string]any{"topic": "loops"},
	})

	ch := core.NewChannels()
	ch.Environment.Store("prod")

	res, err := op(stepCtx(core.StepOutcome{Process: "a1", Result: "earlier"}, ch))
	require.NoError(t, err)

	assert.Equal(t, "generated", res)
	assert.Equal(t, "topic=loops prev=earlier env=prod", seen)

	// The output is also published to the routine message mailbox.
	msg, ok := ch.RoutineMessage.Load()
	require.True(t, ok)
	assert.Equal(t, "generated", msg)
}

func TestActionWrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	p := ProviderFunc(func(string) (string, error) { return "", boom })

	op := Action[fields](p, Template{Name: "bad", Text: "x"})

	_, err := op(stepCtx(core.StepOutcome{}, nil))
	assert.ErrorIs(t, err, boom)
}

func TestTemplateValidate(t *testing.T) {
	assert.Error(t, Template{}.Validate())
	assert.Error(t, Template{Name: "x"}.Validate())
	assert.NoError(t, Template{Name: "x", Text: "y"}.Validate())
}

func TestTemplateSchemaValidation(t *testing.T) {
	type vars struct {
		Topic string `json:"topic"`
	}

	tpl := Template{
		Name:   "outline",
		Text:   "{{.topic}}",
		Schema: VarsSchema(vars{}),
	}

	// Missing required variable.
	assert.Error(t, tpl.Validate())

	tpl.Vars = map[string]any{"topic": "loops"}
	assert.NoError(t, tpl.Validate())

	tpl.Vars = map[string]any{"topic": 42}
	assert.Error(t, tpl.Validate())
}

type fakeAppender struct {
	names []string
}

func (f *fakeAppender) AppendAction(name string, op core.SubRoutine[fields], notify bool) error {
	f.names = append(f.names, name)
	return nil
}

func TestBindRegistersInOrder(t *testing.T) {
	a := &fakeAppender{}
	p := ProviderFunc(func(string) (string, error) { return "", nil })

	err := Bind[fields](a, p,
		Template{Name: "outline", Text: "a"},
		Template{Name: "expand", Text: "b"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"outline", "expand"}, a.names)

	assert.Error(t, Bind[fields](a, nil))
	assert.Error(t, Bind[fields](a, p, Template{Name: "", Text: "x"}))
}
