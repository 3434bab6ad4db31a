package sim

import (
	"strconv"
	"strings"
)

// A Name is a dot-separated hierarchical name. "Station[2].WaitingLine"
// names the waiting line of the third station.
type Name struct {
	Tokens []NameToken
}

// A NameToken is one dot-separated element of a Name, carrying the indices
// spelled in square brackets, if any.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName breaks a name string into its tokens.
func ParseName(sname string) Name {
	parts := strings.Split(sname, ".")

	name := Name{Tokens: make([]NameToken, 0, len(parts))}
	for _, part := range parts {
		name.Tokens = append(name.Tokens, parseNameToken(part))
	}

	return name
}

func parseNameToken(token string) NameToken {
	bracketsMustPair(token)

	open := strings.IndexByte(token, '[')
	if open < 0 {
		return NameToken{ElemName: token, Index: []int{}}
	}

	parsed := NameToken{ElemName: token[:open], Index: []int{}}
	for _, segment := range strings.Split(token[open+1:], "[") {
		index, err := strconv.Atoi(strings.TrimSuffix(segment, "]"))
		if err != nil {
			panic("name index must be an integer")
		}

		parsed.Index = append(parsed.Index, index)
	}

	return parsed
}

func bracketsMustPair(token string) {
	depth := 0
	for _, r := range token {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		}

		if depth < 0 {
			break
		}
	}

	if depth != 0 {
		panic("name brackets must pair up")
	}
}

// NameMustBeValid panics when a name does not follow the naming rules.
// Names are dot-separated hierarchies such as "Station[1].WaitingLine".
// Every element must be non-empty, capitalized CamelCase, free of
// underscores, dashes, and quotes. Repeated elements are told apart by a
// square-bracket index.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + name + " is not valid: " + r.(string))
		}
	}()

	for _, token := range ParseName(name).Tokens {
		tokenMustBeValid(token)
	}
}

func tokenMustBeValid(token NameToken) {
	if token.ElemName == "" {
		panic("name element must not be empty")
	}

	for _, banned := range []string{"_", "\"", "'", "-"} {
		if strings.Contains(token.ElemName, banned) {
			panic("name element must not contain " + banned)
		}
	}

	first := token.ElemName[0]
	if first < 'A' || first > 'Z' {
		panic("name element must start with a capital letter")
	}
}

// BuildName joins a parent name and an element name with a dot.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex names the index-th element of a series under a parent.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
