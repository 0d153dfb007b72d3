package styles

import (
	"fmt"
	"strings"
)

// ModPredicate is a parsed mod expression: an OR of AND clauses over named
// boolean mods. The zero value is the default predicate and always matches.
type ModPredicate struct {
	source  string
	clauses [][]modTerm
}

type modTerm struct {
	name    string
	negated bool
}

// ParseModExpr parses a state key such as "hovered", "disabled & focused" or
// "pressed, !disabled & hovered". Commas separate alternatives, ampersands
// join required mods and a leading "!" negates a mod.
func ParseModExpr(expr string) (ModPredicate, error) {
	source := strings.TrimSpace(expr)
	if source == "" {
		return ModPredicate{}, nil
	}

	alternatives := strings.Split(source, ",")
	clauses := make([][]modTerm, 0, len(alternatives))
	for _, alternative := range alternatives {
		atoms := strings.Split(alternative, "&")
		clause := make([]modTerm, 0, len(atoms))
		for _, atom := range atoms {
			term, err := parseModTerm(atom)
			if err != nil {
				return ModPredicate{}, fmt.Errorf("%w %q: %v", ErrInvalidModExpr, source, err)
			}
			clause = append(clause, term)
		}
		clauses = append(clauses, clause)
	}

	return ModPredicate{source: source, clauses: clauses}, nil
}

func parseModTerm(atom string) (modTerm, error) {
	atom = strings.TrimSpace(atom)
	term := modTerm{}
	if strings.HasPrefix(atom, "!") {
		term.negated = true
		atom = strings.TrimSpace(atom[1:])
	}
	if atom == "" {
		return modTerm{}, fmt.Errorf("empty mod name")
	}
	if strings.ContainsAny(atom, " \t\n!()") {
		return modTerm{}, fmt.Errorf("unexpected character in mod %q", atom)
	}
	term.name = atom
	return term, nil
}

// IsDefault reports whether the predicate is the empty fallback key.
func (p ModPredicate) IsDefault() bool {
	return len(p.clauses) == 0
}

// String returns the trimmed source expression.
func (p ModPredicate) String() string {
	return p.source
}

// Match evaluates the predicate against the active mods.
func (p ModPredicate) Match(mods Mods) bool {
	if p.IsDefault() {
		return true
	}
	for _, clause := range p.clauses {
		if clauseMatches(clause, mods) {
			return true
		}
	}
	return false
}

func clauseMatches(clause []modTerm, mods Mods) bool {
	for _, term := range clause {
		if mods.Active(term.name) == term.negated {
			return false
		}
	}
	return true
}

// Names returns the distinct mod names referenced by the predicate in order of
// first appearance.
func (p ModPredicate) Names() []string {
	var names []string
	seen := map[string]struct{}{}
	for _, clause := range p.clauses {
		for _, term := range clause {
			if _, ok := seen[term.name]; ok {
				continue
			}
			seen[term.name] = struct{}{}
			names = append(names, term.name)
		}
	}
	return names
}

// render writes the predicate as a boolean expression using C-style
// operators. Mod names are replaced by positional identifiers so names such as
// "is-hovered" stay valid in every expression language.
func (p ModPredicate) render(ident func(int) string) string {
	if p.IsDefault() {
		return "true"
	}
	index := map[string]int{}
	for i, name := range p.Names() {
		index[name] = i
	}
	parts := make([]string, 0, len(p.clauses))
	for _, clause := range p.clauses {
		terms := make([]string, 0, len(clause))
		for _, term := range clause {
			id := ident(index[term.name])
			if term.negated {
				id = "!" + id
			}
			terms = append(terms, id)
		}
		joined := strings.Join(terms, " && ")
		if len(p.clauses) > 1 && len(terms) > 1 {
			joined = "(" + joined + ")"
		}
		parts = append(parts, joined)
	}
	return strings.Join(parts, " || ")
}

func positionalIdent(i int) string {
	return fmt.Sprintf("m%d", i)
}

// bindings returns the positional variable bindings for mods.
func (p ModPredicate) bindings(mods Mods) map[string]any {
	names := p.Names()
	env := make(map[string]any, len(names))
	for i, name := range names {
		env[positionalIdent(i)] = mods.Active(name)
	}
	return env
}
