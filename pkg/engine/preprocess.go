package engine

// kwPrefix marks keyword arguments after preprocessing: :seed becomes the
// string literal "__kw_seed".
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//  1. ; line comments become // comments.
//  2. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot collide with user variables.
//  3. kebab-case identifiers become snake_case; zygomys would read the
//     hyphen as subtraction.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	p := &preprocessor{src: []byte(source)}
	p.out = make([]byte, 0, len(p.src)+len(p.src)/4)
	for p.pos < len(p.src) {
		p.step()
	}
	return string(p.out)
}

type preprocessor struct {
	src []byte
	out []byte
	pos int
}

func (p *preprocessor) peek(off int) (byte, bool) {
	i := p.pos + off
	if i < 0 || i >= len(p.src) {
		return 0, false
	}
	return p.src[i], true
}

func (p *preprocessor) emit(b ...byte) {
	p.out = append(p.out, b...)
}

func (p *preprocessor) step() {
	c := p.src[p.pos]
	switch {
	case c == '"':
		p.quoted('"', true)
	case c == '`':
		p.quoted('`', false)
	case c == ';':
		p.comment()
	case c == ':':
		p.colon()
	case c == '-' && p.inIdentifier():
		p.emit('_')
		p.pos++
	default:
		p.emit(c)
		p.pos++
	}
}

// quoted copies a string literal, honoring backslash escapes if escapes is set.
func (p *preprocessor) quoted(delim byte, escapes bool) {
	p.emit(delim)
	p.pos++
	for p.pos < len(p.src) && p.src[p.pos] != delim {
		if escapes && p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
			p.emit(p.src[p.pos], p.src[p.pos+1])
			p.pos += 2
			continue
		}
		p.emit(p.src[p.pos])
		p.pos++
	}
	if p.pos < len(p.src) {
		p.emit(delim)
		p.pos++
	}
}

func (p *preprocessor) comment() {
	p.emit('/', '/')
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.emit(p.src[p.pos])
		p.pos++
	}
}

func (p *preprocessor) colon() {
	next, ok := p.peek(1)
	switch {
	case ok && next == '=':
		p.emit(':', '=')
		p.pos += 2
	case ok && isLetter(next):
		end := p.pos + 1
		for end < len(p.src) && isKWChar(p.src[end]) {
			end++
		}
		p.emit('"')
		p.emit([]byte(kwPrefix)...)
		p.emit(p.src[p.pos+1 : end]...)
		p.emit('"')
		p.pos = end
	default:
		p.emit(':')
		p.pos++
	}
}

// inIdentifier reports whether the hyphen at pos joins two identifier
// parts rather than acting as the minus operator.
func (p *preprocessor) inIdentifier() bool {
	prev, okPrev := p.peek(-1)
	next, okNext := p.peek(1)
	return okPrev && okNext && isIdentChar(prev) && isLetter(next)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
