package borrow

import (
	"fmt"
	"sort"
)

// Mismatch 图书状态与未归还记录不一致
type Mismatch struct {
	BookID      int64
	Borrowed    bool    // 图书status是否为borrowed
	OpenBorrows []int64 // 引用该图书的未归还记录ID
}

func (m Mismatch) String() string {
	return fmt.Sprintf("book %d: borrowed=%t open_borrows=%v", m.BookID, m.Borrowed, m.OpenBorrows)
}

// CheckConsistency 检查 status=borrowed 当且仅当恰好存在一条未归还记录
// borrowedBookIDs为所有status=borrowed的图书ID
func CheckConsistency(open []*Borrow, borrowedBookIDs []int64) []Mismatch {
	byBook := make(map[int64][]int64)
	for _, b := range open {
		byBook[b.BookID] = append(byBook[b.BookID], b.ID)
	}
	borrowed := make(map[int64]bool, len(borrowedBookIDs))
	for _, id := range borrowedBookIDs {
		borrowed[id] = true
	}

	var out []Mismatch
	for id := range borrowed {
		if len(byBook[id]) != 1 {
			out = append(out, Mismatch{BookID: id, Borrowed: true, OpenBorrows: byBook[id]})
		}
	}
	for id, ids := range byBook {
		if !borrowed[id] {
			out = append(out, Mismatch{BookID: id, Borrowed: false, OpenBorrows: ids})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}
