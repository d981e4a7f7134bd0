package catalog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FilterEnv is the environment a filter expression is evaluated against.
//
// Examples:
//   - inStock && price < 100
//   - category == "tech" and "Color" in attributes
//   - name contains "iPhone"
type FilterEnv struct {
	ID         string   `expr:"id"`
	Name       string   `expr:"name"`
	Category   string   `expr:"category"`
	InStock    bool     `expr:"inStock"`
	Price      float64  `expr:"price"`
	Currency   string   `expr:"currency"`
	Attributes []string `expr:"attributes"`
}

// Filter is a compiled boolean expression over products.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles expression. An empty expression matches every
// product.
func CompileFilter(expression string) (*Filter, error) {
	if expression == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(expression,
		expr.Env(FilterEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.source }

// Match evaluates the filter against p.
func (f *Filter) Match(p Product) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	result, err := expr.Run(f.program, newFilterEnv(p))
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned non-boolean result: %T", f.source, result)
	}
	return b, nil
}

// Apply returns the products matching the filter, preserving order.
func (f *Filter) Apply(products []Product) ([]Product, error) {
	var out []Product
	for _, p := range products {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newFilterEnv(p Product) FilterEnv {
	price := p.FirstPrice()
	attrs := make([]string, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		attrs = append(attrs, a.ID)
	}
	return FilterEnv{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		InStock:    p.InStock,
		Price:      price.Amount,
		Currency:   price.Currency.Label,
		Attributes: attrs,
	}
}
