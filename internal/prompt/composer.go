package prompt

// Target carries the tool and library context exposed to templates, so
// fragments can vary their output per export target.
type Target struct {
	Tool    string
	Library string
}

// Composer renders complete prompts from persona, action, and example
// fragments.
type Composer struct {
	loader *Loader
	engine *Engine
	target Target
}

// NewComposer returns a Composer for the given loader and target.
func NewComposer(loader *Loader, engine *Engine, target Target) *Composer {
	return &Composer{loader: loader, engine: engine, target: target}
}

// Loader exposes the underlying fragment loader.
func (c *Composer) Loader() *Loader {
	return c.loader
}

// Engine exposes the underlying template engine.
func (c *Composer) Engine() *Engine {
	return c.engine
}

// Compose loads the persona and action, renders any examples, and executes
// the action template. Metadata may be nil.
func (c *Composer) Compose(actionName, personaName string, exampleNames []string, metadata map[string]any) (string, error) {
	persona, err := c.loader.LoadPersona(personaName)
	if err != nil {
		return "", err
	}
	action, err := c.loader.LoadAction(actionName)
	if err != nil {
		return "", err
	}

	context := c.buildContext(persona, metadata)

	if len(exampleNames) > 0 {
		rendered := make([]string, 0, len(exampleNames))
		for _, name := range exampleNames {
			example, err := c.loader.LoadExample(name)
			if err != nil {
				return "", err
			}
			content := example.Content
			if example.IsTemplate {
				content, err = c.engine.Render("example/"+example.Name, example.Content, context)
				if err != nil {
					return "", err
				}
			}
			rendered = append(rendered, content)
		}
		context["examples"] = rendered
	}

	return c.engine.Render("action/"+action.Name, action.Template, context)
}

// VariantContext builds the context for rendering a variant instruction
// template.
func (c *Composer) VariantContext(variantName, actionName, personaName string, metadata map[string]any) map[string]any {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"variant_name": variantName,
		"action_name":  actionName,
		"persona_name": personaName,
		"tool":         c.target.Tool,
		"library":      c.target.Library,
		"metadata":     metadata,
	}
}

func (c *Composer) buildContext(persona Persona, metadata map[string]any) map[string]any {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"persona":  persona.Content,
		"tool":     c.target.Tool,
		"library":  c.target.Library,
		"metadata": metadata,
	}
}
