package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedPairs(t *testing.T) {
	content := SortedPairs(map[string]string{
		"money":        "9.90",
		"out_trade_no": "PO1",
		"pid":          "1000",
		"empty":        "",
	})
	// 键名升序，空值跳过
	assert.Equal(t, "money=9.90&out_trade_no=PO1&pid=1000", content)
}

func TestMD5Upper(t *testing.T) {
	got := MD5Upper("a=1&b=2", "key")
	assert.Len(t, got, 32)
	assert.Equal(t, got, MD5Upper("a=1&b=2", "key"))
	assert.NotEqual(t, got, MD5Upper("a=1&b=2", "otherkey"))
}
