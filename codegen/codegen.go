// Package codegen synthesizes circuit actions from declarative templates.
//
// The engine itself never interprets or produces code; generation lives
// entirely behind the Provider interface. A Template pairs an action name
// with a prompt template; Bind renders each template, hands it to the
// provider and registers the result as a regular named action.
package codegen

import (
	"errors"
	"fmt"

	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/internal/util"
)

// Provider turns a rendered prompt into generated output (source text, a
// plan, a structured payload). Implementations decide what "generation"
// means; the engine treats the result as an opaque step outcome.
type Provider interface {
	// Generate runs one generation and returns the output or an error.
	Generate(prompt string) (string, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(prompt string) (string, error)

// Generate implements Provider.
func (f ProviderFunc) Generate(prompt string) (string, error) { return f(prompt) }

// Template describes one action to synthesize.
type Template struct {
	// Name is the action name registered with the circuit.
	Name string

	// Text is a text/template prompt body. Besides the declared Vars it may
	// reference {{.prev}} (the preceding step's result) and {{.env}} (the
	// current environment mailbox value).
	Text string

	// Vars are the static template variables.
	Vars map[string]any

	// Schema optionally constrains Vars; see VarsSchema.
	Schema map[string]any

	// Notify opts the generated action into notify-context mode.
	Notify bool
}

// VarsSchema derives a variable schema from a Go struct, for Template.Schema.
func VarsSchema(structType any) map[string]any {
	return util.CreateSchema(structType)
}

// Validate checks the template against its schema, if one is set.
func (t Template) Validate() error {
	if t.Name == "" {
		return errors.New("codegen: template has no name")
	}

	if t.Text == "" {
		return fmt.Errorf("codegen: template %q has no body", t.Name)
	}

	if t.Schema != nil {
		if err := util.ValidateParameters(t.Vars, t.Schema); err != nil {
			return fmt.Errorf("codegen: template %q: %w", t.Name, err)
		}
	}

	return nil
}

// Action builds the sub-operation for one template. At execution time it
// renders the prompt with the template's vars plus the live prev/env values,
// calls the provider, publishes the output to the routine message mailbox and
// returns it as the step result.
func Action[T any](p Provider, tpl Template) core.SubRoutine[T] {
	return func(ctx *core.Context[T]) (any, error) {
		vars := make(map[string]any, len(tpl.Vars)+2)
		for k, v := range tpl.Vars {
			vars[k] = v
		}

		vars["prev"] = ctx.Prev().Result
		if env, ok := ctx.Environment(); ok {
			vars["env"] = env
		}

		prompt, err := util.RenderTemplate(tpl.Text, vars)
		if err != nil {
			return nil, fmt.Errorf("codegen: render %q: %w", tpl.Name, err)
		}

		// Loggers with timing support (logging.RunLogger) get the generation
		// duration recorded per action.
		if tl, ok := ctx.Logger().(interface{ StartTimer(op string) func() }); ok {
			defer tl.StartTimer("generate " + tpl.Name)()
		}

		out, err := p.Generate(prompt)
		if err != nil {
			return nil, fmt.Errorf("codegen: generate %q: %w", tpl.Name, err)
		}

		ctx.SetRoutineMessage(out)

		return out, nil
	}
}

// Appender is the registration surface Bind needs; *engine.Handle satisfies it.
type Appender[T any] interface {
	AppendAction(name string, op core.SubRoutine[T], notify bool) error
}

// Bind validates each template and registers its generated action with a, in
// the given order.
func Bind[T any](a Appender[T], p Provider, tpls ...Template) error {
	if p == nil {
		return errors.New("codegen: provider must not be nil")
	}

	for _, tpl := range tpls {
		if err := tpl.Validate(); err != nil {
			return err
		}

		if err := a.AppendAction(tpl.Name, Action[T](p, tpl), tpl.Notify); err != nil {
			return err
		}
	}

	return nil
}
