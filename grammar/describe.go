package grammar

import (
	"strconv"

	"github.com/dekarrin/rosed"
)

// Describe renders d's token and production rules as two bordered tables,
// the same rosed.Edit(...).InsertTableOpts formatting tunaq's own grammar
// and LALR table dumps use for debug output. It is meant for a CLI or log
// line, not for machine parsing.
func (d *Definition) Describe() string {
	d.reindex()

	tokenData := [][]string{{"token", "form", "priority", "skip", "context"}}
	for _, r := range d.TokenRules {
		tokenData = append(tokenData, []string{
			r.Name,
			patternFormName(r.Form),
			strconv.Itoa(r.Priority),
			strconv.FormatBool(r.Skip),
			r.Context,
		})
	}

	prodData := [][]string{{"rule", "rhs", "context", "precedence"}}
	for _, r := range d.ProductionRules {
		prodData = append(prodData, []string{
			r.Name,
			rhsString(r.RHS),
			r.Context,
			strconv.Itoa(r.Precedence),
		})
	}

	tokenTable := rosed.Edit("").
		InsertTableOpts(0, tokenData, 100, rosed.Options{TableBorders: true}).
		String()
	prodTable := rosed.Edit("").
		InsertTableOpts(0, prodData, 100, rosed.Options{TableBorders: true}).
		String()

	header := rosed.Edit("Grammar: " + d.Name).Wrap(100).String()
	return header + "\n\n" + tokenTable + "\n\n" + prodTable
}

func patternFormName(f PatternForm) string {
	switch f {
	case PatternRegex:
		return "regex"
	case PatternWord:
		return "word"
	default:
		return "literal"
	}
}

func rhsString(rhs []Symbol) string {
	s := ""
	for i, sym := range rhs {
		if i > 0 {
			s += " "
		}
		if sym.Kind == SymbolNonTerminal {
			s += "<" + sym.Name + ">"
		} else {
			s += sym.Name
		}
	}
	return s
}
