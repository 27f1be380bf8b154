package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

// ruleset returns the pluralization rules. It is read-only after init.
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP",
		"HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA",
		"SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "UUID",
		"URI", "URL", "UTF8", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// words splits an identifier on separators and case boundaries.
// "OrderItem", "order_item" and "order item" all yield [order item].
func words(s string) []string {
	var (
		ws  []string
		cur []rune
		rs  = []rune(s)
	)
	flush := func() {
		if len(cur) > 0 {
			ws = append(ws, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return ws
}

// camel returns the lower camel-case form of s ("Order Item" => "orderItem").
func camel(s string) string {
	ws := words(s)
	for i, w := range ws {
		if i == 0 {
			ws[i] = strings.ToLower(w)
			continue
		}
		ws[i] = upperFirst(strings.ToLower(w))
	}
	return strings.Join(ws, "")
}

// pascal returns the upper camel-case form of s ("order_item" => "OrderItem").
// Known acronyms keep their case ("user_id" => "UserID").
func pascal(s string) string {
	ws := words(s)
	for i, w := range ws {
		if _, ok := acronyms[strings.ToUpper(w)]; ok {
			ws[i] = strings.ToUpper(w)
			continue
		}
		ws[i] = upperFirst(strings.ToLower(w))
	}
	return strings.Join(ws, "")
}

// snake returns the snake-case form of s ("OrderItem" => "order_item").
func snake(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// kebab returns the kebab-case form of s ("OrderItem" => "order-item").
func kebab(s string) string {
	return strings.ReplaceAll(snake(s), "_", "-")
}

// plural returns the plural form of s using the package ruleset.
func plural(s string) string {
	return rules.Pluralize(s)
}

// title returns the space-separated title form of s ("orderItem" => "Order Item").
func title(s string) string {
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Title(language.English).String(strings.Join(words(s), " "))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// identifier returns s as a valid exported Go identifier.
func identifier(s string) string {
	id := pascal(s)
	if id == "" {
		return "X"
	}
	if r := []rune(id)[0]; unicode.IsDigit(r) {
		id = "X" + id
	}
	return id
}

// Naming helpers shared with the renderers.
var (
	// Camel returns the lower camel-case form of s.
	Camel = camel
	// Pascal returns the upper camel-case form of s.
	Pascal = pascal
	// Snake returns the snake-case form of s.
	Snake = snake
	// Kebab returns the kebab-case form of s.
	Kebab = kebab
	// Plural returns the plural form of s.
	Plural = plural
	// Title returns the space-separated title form of s.
	Title = title
	// Identifier returns s as a valid exported Go identifier.
	Identifier = identifier
)
