package sign

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// SortedPairs 将参数按键名升序拼接为 k=v&k=v，空值跳过
func SortedPairs(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// MD5Upper 对 拼接串+suffix 做MD5并返回大写十六进制
func MD5Upper(content, suffix string) string {
	sum := md5.Sum([]byte(content + suffix))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// EncodeQuery 将参数编码为URL查询串（含签名字段）
func EncodeQuery(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}
