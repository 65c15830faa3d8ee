package mines

import "github.com/sirupsen/logrus"

var Log = logrus.New()

// celltodo is a FIFO of cell indices threaded through a per-cell next
// array. A cell can be queued at most once during its lifetime.
type celltodo struct {
	next       []int
	queued     []bool
	head, tail int
}

func newCelltodo(n int) *celltodo {
	return &celltodo{
		next:   make([]int, n),
		queued: make([]bool, n),
		head:   -1,
		tail:   -1,
	}
}

func (std *celltodo) add(i int) bool {
	if std.queued[i] {
		return false
	}
	std.queued[i] = true
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = -1
	return true
}

func (std *celltodo) pop() (int, bool) {
	if std.head < 0 {
		return 0, false
	}
	i := std.head
	std.head = std.next[i]
	if std.head < 0 {
		std.tail = -1
	}
	return i, true
}
