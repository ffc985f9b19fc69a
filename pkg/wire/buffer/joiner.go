package buffer

import "io"

// View is a readable window over one or more frame payloads. Reads are
// sequential and cross part boundaries transparently. Releasing the view
// releases every underlying part exactly once.
type View interface {
	PeekByte() (byte, error)
	Peek(n int) ([]byte, error)
	Len() int
	ReadByte() (byte, error)
	Next(n int) ([]byte, error)
	Skip(n int) error
	Release()
}

// Join combines parts into a single View without copying their backing
// storage. A single part is returned as-is; the caller owns the view and
// must release it, which releases the parts.
func Join(parts []*Buffer) View {
	if len(parts) == 1 {
		return parts[0]
	}
	return &joined{parts: parts}
}

// joined is a composite View over two or more buffers.
type joined struct {
	parts []*Buffer
	idx   int
}

func (j *joined) Len() int {
	n := 0
	for i := j.idx; i < len(j.parts); i++ {
		n += j.parts[i].Len()
	}
	return n
}

// skipEmpty advances idx past fully consumed parts without releasing them;
// parts stay alive until the view is released so that zero-copy slices
// handed out by Next remain valid.
func (j *joined) skipEmpty() {
	for j.idx < len(j.parts) && j.parts[j.idx].Len() == 0 {
		j.idx++
	}
}

func (j *joined) PeekByte() (byte, error) {
	j.skipEmpty()
	if j.idx >= len(j.parts) {
		return 0, io.ErrUnexpectedEOF
	}
	return j.parts[j.idx].PeekByte()
}

func (j *joined) Peek(n int) ([]byte, error) {
	j.skipEmpty()
	if j.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	if j.idx < len(j.parts) && j.parts[j.idx].Len() >= n {
		return j.parts[j.idx].Peek(n)
	}
	// Crossing a boundary; gather into a fresh slice.
	out := make([]byte, 0, n)
	for i := j.idx; i < len(j.parts) && len(out) < n; i++ {
		p := j.parts[i].Bytes()
		if len(p) > n-len(out) {
			p = p[:n-len(out)]
		}
		out = append(out, p...)
	}
	return out, nil
}

func (j *joined) ReadByte() (byte, error) {
	j.skipEmpty()
	if j.idx >= len(j.parts) {
		return 0, io.ErrUnexpectedEOF
	}
	return j.parts[j.idx].ReadByte()
}

func (j *joined) Next(n int) ([]byte, error) {
	j.skipEmpty()
	if j.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	if j.idx < len(j.parts) && j.parts[j.idx].Len() >= n {
		return j.parts[j.idx].Next(n)
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		j.skipEmpty()
		p := j.parts[j.idx]
		take := p.Len()
		if take > n-len(out) {
			take = n - len(out)
		}
		chunk, err := p.Next(take)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (j *joined) Skip(n int) error {
	if j.Len() < n {
		return io.ErrUnexpectedEOF
	}
	for n > 0 {
		j.skipEmpty()
		p := j.parts[j.idx]
		take := p.Len()
		if take > n {
			take = n
		}
		if err := p.Skip(take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

func (j *joined) Release() {
	ReleaseAll(j.parts)
	j.parts = nil
	j.idx = 0
}
