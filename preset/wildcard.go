package preset

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// maxPasses bounds re-expansion of text pulled in from files and keys.
	maxPasses = 10
	// maxGroupsPerPass bounds {...} substitutions within one pass.
	maxGroupsPerPass = 100
)

// FileResolver supplies the lines behind a __name__ reference.
type FileResolver interface {
	WildcardLines(name string) ([]string, bool)
}

// ExpandOptions configures one Expand call.
type ExpandOptions struct {
	Seed uint64
	Mode SelectionMode
	// ContextKey namespaces the site cursors used in sequential modes.
	ContextKey string
	// Document backs {__key__|__key__} groups. May be nil.
	Document *Document
	Files    FileResolver
	Logger   *zap.Logger
}

// Expansion is the outcome of Expand. Exhausted is set when a pass or
// substitution ceiling stopped expansion early; Text is then partial.
type Expansion struct {
	Text      string
	Passes    int
	Exhausted bool
}

// Expand resolves wildcards in text:
//
//	{A|B|C}          one of the alternatives; {A} is just A
//	__name__         one line of name.txt
//	{__k1__|__k2__}  one leaf under keys k1 or k2 of the document
//
// A keyed group with no content in the document is left as written.
// Without a document it reads as a literal group of file references.
//
// Groups nest. Sequential modes walk each site's candidates in order, one
// step per call; other modes draw from a generator seeded once per call.
// Substituted text is expanded again until nothing changes.
func (s *State) Expand(text string, opts ExpandOptions) Expansion {
	s.mu.Lock()
	defer s.mu.Unlock()

	x := &expander{state: s, opts: opts, log: opts.Logger}
	if x.log == nil {
		x.log = zap.NewNop()
	}
	if !opts.Mode.IsSequential() {
		x.rng = newRand(opts.Seed)
	}

	out := Expansion{Text: text}
	if text == "" {
		return out
	}
	for x.pass = 0; x.pass < maxPasses; x.pass++ {
		x.groups = 0
		var b strings.Builder
		x.render(parseTemplate(out.Text), "", &b)
		next := b.String()
		if next == out.Text {
			out.Exhausted = x.exhausted
			return out
		}
		out.Text = next
		out.Passes++
	}

	// The last pass may have finished the job. Check without moving cursors.
	x.dryRun = true
	x.groups = 0
	var b strings.Builder
	x.render(parseTemplate(out.Text), "", &b)
	if b.String() == out.Text {
		out.Exhausted = x.exhausted
		return out
	}
	x.log.Warn("wildcard expansion stopped at pass limit",
		zap.Int("passes", maxPasses), zap.String("context", opts.ContextKey))
	out.Exhausted = true
	return out
}

type node interface{}

type textNode string

type fileNode struct {
	name string
	raw  string
}

type groupNode struct {
	alts [][]node
	raw  string
	// keys is set when every alternative is a single __key__ token.
	keys []string
}

type parser struct {
	s     string
	match map[int]int
}

func parseTemplate(s string) []node {
	p := &parser{s: s, match: matchBraces(s)}
	return p.seq(0, len(s))
}

// matchBraces pairs each '{' with its closing '}'. Unpaired braces are
// absent from the result and read as plain text.
func matchBraces(s string) map[int]int {
	match := make(map[int]int)
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			open = append(open, i)
		case '}':
			if len(open) > 0 {
				match[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}
	return match
}

func (p *parser) seq(start, end int) []node {
	var nodes []node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, textNode(text.String()))
			text.Reset()
		}
	}
	for i := start; i < end; {
		switch {
		case p.s[i] == '{':
			closing, ok := p.match[i]
			if !ok || closing >= end {
				text.WriteByte('{')
				i++
				continue
			}
			if closing == i+1 {
				text.WriteString("{}")
				i = closing + 1
				continue
			}
			flush()
			nodes = append(nodes, p.group(i, closing))
			i = closing + 1
		case strings.HasPrefix(p.s[i:end], "__"):
			name, n := fileRef(p.s[i:end])
			if n == 0 {
				text.WriteByte('_')
				i++
				continue
			}
			flush()
			nodes = append(nodes, &fileNode{name: name, raw: p.s[i : i+n]})
			i += n
		default:
			text.WriteByte(p.s[i])
			i++
		}
	}
	flush()
	return nodes
}

func (p *parser) group(open, closing int) *groupNode {
	g := &groupNode{raw: p.s[open : closing+1]}
	from := open + 1
	for i := open + 1; i < closing; i++ {
		switch p.s[i] {
		case '{':
			if c, ok := p.match[i]; ok {
				i = c
			}
		case '|':
			g.alts = append(g.alts, p.seq(from, i))
			from = i + 1
		}
	}
	g.alts = append(g.alts, p.seq(from, closing))
	g.keys = keyList(p.s[open+1 : closing])
	return g
}

// fileRef reads "__name__" at the start of s and returns the name and the
// token length, or 0 when s does not start with a reference. The name is
// the longest run of [A-Za-z0-9_-] that is still followed by "__".
func fileRef(s string) (string, int) {
	j := 2
	for j < len(s) && isNameByte(s[j]) {
		j++
	}
	run := s[2:j]
	idx := strings.LastIndex(run, "__")
	if idx < 1 {
		return "", 0
	}
	return run[:idx], idx + 4
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// keyList returns the keys of a "__k1__|__k2__" group body, or nil.
func keyList(content string) []string {
	if strings.ContainsAny(content, "{}") {
		return nil
	}
	parts := strings.Split(content, "|")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) < 5 || !strings.HasPrefix(part, "__") || !strings.HasSuffix(part, "__") {
			return nil
		}
		keys = append(keys, part[2:len(part)-2])
	}
	return keys
}

type expander struct {
	state *State
	opts  ExpandOptions
	rng   *rand.Rand
	log   *zap.Logger

	pass      int
	groups    int
	exhausted bool
	// dryRun makes pick read cursors without advancing them.
	dryRun bool
}

// render writes nodes to b. path is the site path of the enclosing group;
// the n-th group of a node list gets path "<path>.<n>".
func (x *expander) render(nodes []node, path string, b *strings.Builder) {
	gi := 0
	for _, n := range nodes {
		switch v := n.(type) {
		case textNode:
			b.WriteString(string(v))
		case *fileNode:
			x.file(v, b)
		case *groupNode:
			site := strconv.Itoa(gi)
			if path != "" {
				site = path + "." + site
			}
			gi++
			x.group(v, site, b)
		}
	}
}

func (x *expander) group(g *groupNode, site string, b *strings.Builder) {
	if len(g.keys) > 0 && x.opts.Document != nil {
		var candidates []string
		for _, k := range g.keys {
			candidates = append(candidates, x.opts.Document.Lookup(k)...)
		}
		if len(candidates) == 0 {
			x.log.Debug("no document content for wildcard keys", zap.Strings("keys", g.keys))
			b.WriteString(g.raw)
			return
		}
		body := g.raw[1 : len(g.raw)-1]
		b.WriteString(candidates[x.pick("key:"+body, len(candidates))])
		return
	}

	if x.groups >= maxGroupsPerPass {
		if !x.exhausted {
			x.log.Warn("wildcard substitution limit reached", zap.Int("limit", maxGroupsPerPass))
		}
		x.exhausted = true
		b.WriteString(g.raw)
		return
	}
	x.groups++

	if len(g.alts) == 1 {
		x.render(g.alts[0], site, b)
		return
	}
	alt := g.alts[x.pick(fmt.Sprintf("choice:p%d:%s", x.pass, site), len(g.alts))]
	var sub strings.Builder
	x.render(alt, site, &sub)
	b.WriteString(strings.TrimSpace(sub.String()))
}

func (x *expander) file(f *fileNode, b *strings.Builder) {
	var lines []string
	ok := false
	if x.opts.Files != nil {
		lines, ok = x.opts.Files.WildcardLines(f.name)
	}
	if !ok || len(lines) == 0 {
		x.log.Debug("wildcard file unavailable", zap.String("name", f.name))
		b.WriteString(f.raw)
		return
	}
	b.WriteString(lines[x.pick("file:"+f.name, len(lines))])
}

// pick chooses one of n candidates for site. Caller holds state.mu.
func (x *expander) pick(site string, n int) int {
	if !x.opts.Mode.IsSequential() {
		return x.rng.IntN(n)
	}
	key := x.opts.ContextKey + "/" + site
	i := x.state.wildcards[key] % n
	if !x.dryRun {
		x.state.wildcards[key] = (i + 1) % n
	}
	return i
}
