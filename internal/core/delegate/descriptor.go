package delegate

import "strings"

// Descriptor 方法描述符：名称 + 有序参数类型名
//
// 描述符的字符串形式 "name(p1,p2)" 同时作为解析缓存的键。
type Descriptor struct {
	Name   string
	Params []string
}

// Method 创建方法描述符
func Method(name string, params ...string) Descriptor {
	return Descriptor{Name: name, Params: params}
}

// String 返回 "name(p1,p2)" 形式
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(d.Params, ","))
	b.WriteByte(')')
	return b.String()
}

// Arity 返回参数个数
func (d Descriptor) Arity() int {
	return len(d.Params)
}
