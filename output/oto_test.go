package output

import (
	"errors"
	"reflect"
	"testing"
)

type rampSource struct {
	next  int16
	calls int
}

func (s *rampSource) Process(out []int16) {
	s.calls++
	for i := range out {
		out[i] = s.next
		s.next--
	}
}

func TestPCMReader(t *testing.T) {
	src := &rampSource{next: 1}
	r := newPCMReader(src, 2)

	p := make([]byte, 10)
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 8, n; want != got {
		t.Fatalf("bytes: want %v, got %v", want, got)
	}
	if want, got := []byte{1, 0, 0, 0, 0xff, 0xff, 0xfe, 0xff, 0, 0}, p; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}

	// Larger reads grow the scratch buffer.
	p = make([]byte, 64)
	if n, _ := r.Read(p); n != 64 {
		t.Errorf("bytes: want 64, got %v", n)
	}
	if want, got := 2, src.calls; want != got {
		t.Errorf("calls: want %v, got %v", want, got)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("jack", &rampSource{}, 256)
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
