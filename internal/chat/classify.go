package chat

import "time"

// Align is the horizontal placement of a rendered event.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Frame is the box drawn around a rendered event.
type Frame int

const (
	FrameNone Frame = iota
	FrameCard
	FrameErrorAlert
	FrameWarningAlert
	FrameCode
)

// Block languages for FrameCode decisions.
const (
	LanguageJSON    = "json"
	LanguageGraphQL = "graphql"
)

const (
	headerGraphQLQuery  = "GraphQL Query"
	headerGraphQLResult = "Query Result"
	innerDialogLead     = ". . ."
)

// AudioRef points at an audio object as <origin>/<object-key>. It is passed
// through as received; resolving it is up to the view layer.
type AudioRef struct {
	URL string
}

// Decision is everything the view layer needs to present one event.
type Decision struct {
	Kind Kind
	Text string

	Align      Align
	Frame      Frame
	Header     string
	Language   string
	Lead       string
	Animate    bool
	Structured bool

	// Since is when the event arrived; the typewriter reveals from here.
	Since time.Time

	Audio *AudioRef
	// Invoke fires the query once per call. Nil when no invoker is set.
	Invoke func()
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithNormalizer replaces NormalizeDetailed for structured kinds.
func WithNormalizer(fn func(string) Normalized) Option {
	return func(c *Classifier) { c.normalize = fn }
}

// WithQueryInvoker sets the function run when a GraphQL query's Invoke
// trigger fires.
func WithQueryInvoker(fn func(query string)) Option {
	return func(c *Classifier) { c.invoke = fn }
}

// Classifier maps events to render decisions. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	normalize func(string) Normalized
	invoke    func(query string)
}

var _ EventVisitor = (*Classifier)(nil)

// NewClassifier creates a classifier with the default normalizer.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{normalize: NormalizeDetailed}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the decision for a single event.
func (c *Classifier) Classify(e Event) Decision {
	return e.accept(c)
}

func raw(e Event) Decision {
	return Decision{Kind: e.Kind(), Text: e.Text(), Since: e.Time()}
}

func (c *Classifier) structured(e Event) Decision {
	n := c.normalize(e.Text())
	d := raw(e)
	d.Text = n.Text
	d.Structured = n.Structured()
	d.Frame = FrameCode
	d.Language = LanguageJSON
	return d
}

func (c *Classifier) VisitUserMessage(e UserMessage) Decision {
	d := raw(e)
	d.Align = AlignRight
	d.Frame = FrameCard
	return d
}

func (c *Classifier) VisitUserError(e UserError) Decision {
	d := raw(e)
	d.Frame = FrameErrorAlert
	return d
}

func (c *Classifier) VisitAgentMessage(e AgentMessage) Decision {
	d := raw(e)
	d.Animate = !e.DisableTyping
	if e.AudioFileURL != "" {
		d.Audio = &AudioRef{URL: e.AudioFileURL}
	}
	return d
}

func (c *Classifier) VisitAgentPartial(e AgentPartial) Decision {
	return raw(e)
}

func (c *Classifier) VisitAgentJSON(e AgentJSON) Decision {
	return c.structured(e)
}

func (c *Classifier) VisitAgentGraphQLQuery(e AgentGraphQLQuery) Decision {
	d := raw(e)
	d.Frame = FrameCode
	d.Language = LanguageGraphQL
	d.Header = headerGraphQLQuery
	if c.invoke != nil {
		query, invoke := e.Text(), c.invoke
		d.Invoke = func() { invoke(query) }
	}
	return d
}

func (c *Classifier) VisitAgentGraphQLResult(e AgentGraphQLResult) Decision {
	d := c.structured(e)
	d.Header = headerGraphQLResult
	return d
}

func (c *Classifier) VisitAgentInnerDialog(e AgentInnerDialog) Decision {
	d := raw(e)
	d.Lead = innerDialogLead
	d.Animate = true
	return d
}

func (c *Classifier) VisitAgentWarning(e AgentWarning) Decision {
	d := raw(e)
	d.Frame = FrameWarningAlert
	d.Animate = true
	return d
}
