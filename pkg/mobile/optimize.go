// Package mobile enforces the rendering invariants that keep schemas usable
// on small screens: single-column choice groups, native dropdowns, full-width
// text inputs, list-mode matrices, and camera-enabled file uploads. Optimize
// rewrites a tree to satisfy the invariants it owns; Validate audits a tree
// without touching it.
package mobile

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Root defaults applied when the schema leaves them unset.
const (
	DefaultWidthMode           = "responsive"
	DefaultShowQuestionNumbers = "off"
	DefaultMobileBreakpoint    = 768

	defaultMaxWidth   = "100%"
	defaultSourceType = "camera,file-picker"
	defaultMobileView = "list"
	selectRenderMode  = "select"
	tableRenderMode   = "table"
)

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger attaches a logger that records each rule application. The
// default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Optimizer) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMaxDepth overrides the nesting cap used during traversal.
func WithMaxDepth(depth int) Option {
	return func(o *Optimizer) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Optimizer applies the mobile rendering rules to schema trees.
type Optimizer struct {
	log      *zap.Logger
	maxDepth int
}

// New constructs an Optimizer with the given options.
func New(options ...Option) *Optimizer {
	o := &Optimizer{
		log:      zap.NewNop(),
		maxDepth: schema.DefaultMaxDepth,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Optimize rewrites the form in place. It is deterministic, idempotent, and
// total: element kinds without a rule pass through unchanged, and recursion
// descends into nested elements and matrix rows for every element regardless
// of its declared type. Nesting beyond the depth cap is left as-is.
func (o *Optimizer) Optimize(form *schema.Form) {
	if form == nil {
		return
	}

	if form.WidthMode == "" {
		form.WidthMode = DefaultWidthMode
		o.log.Debug("mobile: set root widthMode", zap.String("value", DefaultWidthMode))
	}
	if form.ShowQuestionNumbers == "" {
		form.ShowQuestionNumbers = DefaultShowQuestionNumbers
	}
	if form.MobileBreakpoint == 0 {
		form.MobileBreakpoint = DefaultMobileBreakpoint
	}

	if err := schema.WalkDepth(form, o.optimizeElement, o.maxDepth); err != nil {
		o.log.Warn("mobile: traversal stopped early", zap.Error(err))
	}
}

func (o *Optimizer) optimizeElement(el *schema.Element, path schema.Path) {
	switch el.Type {
	case schema.TypeRadioGroup, schema.TypeCheckbox:
		// Single-column layout is mandatory: an absent or positive colCount
		// is forced to zero; an explicit non-positive value stands.
		if el.ColCount == nil || *el.ColCount > 0 {
			zero := 0
			el.ColCount = &zero
			o.log.Debug("mobile: forced single column", zap.String("element", path.String()))
		}
		if el.RenderAs == tableRenderMode {
			el.RenderAs = ""
			o.log.Debug("mobile: stripped table render mode", zap.String("element", path.String()))
		}

	case schema.TypeText, schema.TypeComment:
		if el.MaxWidth == "" {
			el.MaxWidth = defaultMaxWidth
		}

	case schema.TypeDropdown:
		// Always forced, never defaulted: native select rendering wins over
		// whatever the source document asked for.
		el.RenderAs = selectRenderMode

	case schema.TypeFile:
		if el.SourceType == "" {
			el.SourceType = defaultSourceType
			o.log.Debug("mobile: enabled camera capture", zap.String("element", path.String()))
		}

	case schema.TypeMatrix, schema.TypeMatrixDropdown, schema.TypeMatrixDynamic:
		if el.MobileView == "" {
			el.MobileView = defaultMobileView
		}
		if el.ColumnColCount != nil && *el.ColumnColCount > 1 {
			one := 1
			el.ColumnColCount = &one
		}
	}
}

// Optimize applies the default Optimizer. Most callers want this form.
func Optimize(form *schema.Form) {
	New().Optimize(form)
}
