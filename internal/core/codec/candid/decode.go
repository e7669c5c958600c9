package candid

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aviate-labs/agent-go/candid/idl"
	"github.com/aviate-labs/agent-go/principal"
	"github.com/aviate-labs/leb128"

	"github.com/weisyn/tokens/pkg/types"
)

// maxDepth 类型与值的最大嵌套深度
const maxDepth = 256

// maxZeroSizedVec 元素不占字节的 vec 允许的最大长度
const maxZeroSizedVec = 1 << 16

// magic 消息头
var magic = []byte("DIDL")

var (
	errUnexpectedEOF = errors.New("candid: 消息意外结束")
	// ErrInvalidMagic 缺少 DIDL 消息头
	ErrInvalidMagic = errors.New("candid: missing DIDL magic")
	// ErrUnsupportedType 消息中含有不解码的类型（func 引用）
	ErrUnsupportedType = errors.New("candid: 不支持的类型")
)

// Decode 解码 Candid 消息，返回各参数的值
//
// 先做一遍有界扫描（长度、嵌套深度、递归类型是否有有限值），
// 通过后交给 idl.Decode，再把结果转换为本包的值表示：
// nat/int 为 *big.Int，natN/intN 为对应定长整数，
// principal 与 service 为 types.Identity，vec nat8 为 []byte，其余 vec 为 []any，
// opt 为 Opt，record 为 Record，variant 为 Variant，null/reserved 为 nil。
func Decode(data []byte) ([]any, error) {
	if !bytes.HasPrefix(data, magic) {
		return nil, ErrInvalidMagic
	}
	if err := scan(data[len(magic):]); err != nil {
		return nil, err
	}
	ts, vs, err := idl.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("candid: %w", err)
	}
	if len(ts) != len(vs) {
		return nil, fmt.Errorf("candid: 类型数 %d 与值数 %d 不一致", len(ts), len(vs))
	}
	out := make([]any, len(vs))
	for i := range vs {
		if out[i], err = fromIDL(ts[i], vs[i], 0); err != nil {
			return nil, fmt.Errorf("candid: 参数 %d: %w", i, err)
		}
	}
	return out, nil
}

// fromIDL 把 idl.Decode 的结果转换为本包的值表示
func fromIDL(t idl.Type, v any, depth int) (any, error) {
	if depth > maxDepth {
		return nil, errors.New("值嵌套过深")
	}
	switch t := t.(type) {
	case *idl.NullType, *idl.ReservedType:
		return nil, nil
	case *idl.NatType:
		if n, ok := v.(idl.Nat); ok {
			return n.BigInt(), nil
		}
		return v, nil
	case *idl.IntType:
		if n, ok := v.(idl.Int); ok {
			return n.BigInt(), nil
		}
		return v, nil
	case *idl.PrincipalType:
		p, ok := v.(principal.Principal)
		if !ok {
			return nil, typeError("principal", v)
		}
		return types.IdentityFromBytes(p.Raw)
	case *idl.Service:
		p, ok := v.(*principal.Principal)
		if !ok || p == nil {
			return nil, typeError("service", v)
		}
		return types.IdentityFromBytes(p.Raw)
	case *idl.OptionalType:
		if v == nil {
			return None, nil
		}
		inner, err := fromIDL(t.Type, v, depth+1)
		if err != nil {
			return nil, err
		}
		return Some(inner), nil
	case *idl.VectorType:
		items, ok := v.([]any)
		if !ok && v != nil {
			return nil, typeError("vec", v)
		}
		if t.Type.String() == "nat8" {
			return AsBlob(items)
		}
		out := make([]any, len(items))
		for i, item := range items {
			conv, err := fromIDL(t.Type, item, depth+1)
			if err != nil {
				return nil, fmt.Errorf("vec[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case *idl.RecordType:
		m, _ := v.(map[string]any)
		rec := make(Record, len(t.Fields))
		for _, f := range t.Fields {
			id, err := strconv.ParseUint(f.Name, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("字段标签 %q 不是哈希值", f.Name)
			}
			conv, err := fromIDL(f.Type, m[f.Name], depth+1)
			if err != nil {
				return nil, fmt.Errorf("字段 %d: %w", id, err)
			}
			rec[uint32(id)] = conv
		}
		return rec, nil
	case *idl.VariantType:
		vr, ok := v.(*idl.Variant)
		if !ok || vr == nil {
			return nil, typeError("variant", v)
		}
		id, err := strconv.ParseUint(vr.Name, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("variant 标签 %q 不是哈希值", vr.Name)
		}
		conv, err := fromIDL(vr.Type, vr.Value, depth+1)
		if err != nil {
			return nil, err
		}
		return Variant{ID: uint32(id), Value: conv}, nil
	default:
		// bool、text、float 与定长整数原样返回
		return v, nil
	}
}

// entry 类型表条目，只保留扫描所需的操作码与子类型引用
type entry struct {
	op   int64
	refs []int64
}

// scanner 在 idl.Decode 之前检查消息：
// 长度前缀不超过剩余字节，嵌套不超过 maxDepth，
// 类型表中每个复合类型都存在有限值，且不含 func 引用。
type scanner struct {
	r     *bytes.Reader
	table []entry
	depth int
}

func scan(body []byte) error {
	s := &scanner{r: bytes.NewReader(body)}
	if err := s.readTable(); err != nil {
		return err
	}
	if err := s.checkFinite(); err != nil {
		return err
	}

	count, err := s.uleb()
	if err != nil {
		return err
	}
	if count > uint64(s.r.Len()) {
		return fmt.Errorf("candid: 参数个数 %d 超出消息长度", count)
	}
	refs := make([]int64, count)
	for i := range refs {
		if refs[i], err = s.sleb(); err != nil {
			return err
		}
		if err := s.checkRef(refs[i]); err != nil {
			return err
		}
	}
	for i, ref := range refs {
		if err := s.value(ref); err != nil {
			return fmt.Errorf("candid: 参数 %d: %w", i, err)
		}
	}
	if s.r.Len() != 0 {
		return fmt.Errorf("candid: 消息末尾多出 %d 字节", s.r.Len())
	}
	return nil
}

func (s *scanner) uleb() (uint64, error) {
	n, err := leb128.DecodeUnsigned(s.r)
	if err != nil {
		return 0, errUnexpectedEOF
	}
	if !n.IsUint64() {
		return 0, errors.New("candid: LEB128 数值溢出")
	}
	return n.Uint64(), nil
}

func (s *scanner) sleb() (int64, error) {
	n, err := leb128.DecodeSigned(s.r)
	if err != nil {
		return 0, errUnexpectedEOF
	}
	if !n.IsInt64() {
		return 0, errors.New("candid: LEB128 数值溢出")
	}
	return n.Int64(), nil
}

func (s *scanner) skip(n uint64) error {
	if n > uint64(s.r.Len()) {
		return errUnexpectedEOF
	}
	_, err := s.r.Seek(int64(n), io.SeekCurrent)
	return err
}

func (s *scanner) readTable() error {
	n, err := s.uleb()
	if err != nil {
		return err
	}
	if n > uint64(s.r.Len()) {
		return fmt.Errorf("candid: 类型表长度 %d 超出消息长度", n)
	}
	s.table = make([]entry, n)
	for i := range s.table {
		op, err := s.sleb()
		if err != nil {
			return err
		}
		e := entry{op: op}
		switch op {
		case opcodes[KindOpt], opcodes[KindVec]:
			ref, err := s.sleb()
			if err != nil {
				return err
			}
			e.refs = []int64{ref}
		case opcodes[KindRecord], opcodes[KindVariant]:
			count, err := s.uleb()
			if err != nil {
				return err
			}
			if count > uint64(s.r.Len()) {
				return fmt.Errorf("candid: 字段个数 %d 超出消息长度", count)
			}
			var prev uint64
			for j := uint64(0); j < count; j++ {
				id, err := s.uleb()
				if err != nil {
					return err
				}
				if id > math.MaxUint32 {
					return fmt.Errorf("candid: 字段 ID %d 超出 32 位", id)
				}
				if j > 0 && id <= prev {
					return errors.New("candid: 字段 ID 未严格递增")
				}
				prev = id
				ref, err := s.sleb()
				if err != nil {
					return err
				}
				e.refs = append(e.refs, ref)
			}
		case opcodes[KindService]:
			count, err := s.uleb()
			if err != nil {
				return err
			}
			if count > uint64(s.r.Len()) {
				return fmt.Errorf("candid: 方法个数 %d 超出消息长度", count)
			}
			for j := uint64(0); j < count; j++ {
				if err := s.lengthPrefixed(); err != nil {
					return err
				}
				ref, err := s.sleb()
				if err != nil {
					return err
				}
				e.refs = append(e.refs, ref)
			}
		case opcodes[KindFunc]:
			return fmt.Errorf("%w: func 引用", ErrUnsupportedType)
		default:
			return fmt.Errorf("candid: 类型表中的非法操作码 %d", op)
		}
		s.table[i] = e
	}
	for _, e := range s.table {
		for _, ref := range e.refs {
			if err := s.checkRef(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *scanner) checkRef(ref int64) error {
	if ref >= 0 {
		if ref >= int64(len(s.table)) {
			return fmt.Errorf("candid: 类型引用 %d 越界", ref)
		}
		return nil
	}
	if k, ok := kindByOpcode[ref]; !ok || !k.primitive() {
		return fmt.Errorf("candid: 非法的类型操作码 %d", ref)
	}
	return nil
}

// checkFinite 拒绝没有有限值的复合类型，例如 record { 0 : self }
func (s *scanner) checkFinite() error {
	finite := make([]bool, len(s.table))
	ok := func(ref int64) bool {
		if ref < 0 {
			return ref != opcodes[KindEmpty]
		}
		return finite[ref]
	}
	for changed := true; changed; {
		changed = false
		for i, e := range s.table {
			if finite[i] {
				continue
			}
			switch e.op {
			case opcodes[KindOpt], opcodes[KindVec], opcodes[KindService]:
				finite[i] = true
			case opcodes[KindRecord]:
				finite[i] = true
				for _, ref := range e.refs {
					finite[i] = finite[i] && ok(ref)
				}
			case opcodes[KindVariant]:
				for _, ref := range e.refs {
					finite[i] = finite[i] || ok(ref)
				}
			}
			changed = changed || finite[i]
		}
	}
	for i, f := range finite {
		if !f {
			return fmt.Errorf("candid: 类型 %d 不存在有限值", i)
		}
	}
	return nil
}

// zeroSized 值是否不占字节
func (s *scanner) zeroSized(ref int64, depth int) bool {
	if ref < 0 {
		return ref == opcodes[KindNull] || ref == opcodes[KindReserved]
	}
	e := s.table[ref]
	if e.op != opcodes[KindRecord] || depth > maxDepth {
		return false
	}
	for _, child := range e.refs {
		if !s.zeroSized(child, depth+1) {
			return false
		}
	}
	return true
}

func (s *scanner) lengthPrefixed() error {
	n, err := s.uleb()
	if err != nil {
		return err
	}
	return s.skip(n)
}

func (s *scanner) reference() error {
	flag, err := s.r.ReadByte()
	if err != nil {
		return errUnexpectedEOF
	}
	if flag != 1 {
		return errors.New("不支持不透明引用")
	}
	return s.lengthPrefixed()
}

func (s *scanner) value(ref int64) error {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxDepth {
		return errors.New("值嵌套过深")
	}

	if ref < 0 {
		switch kindByOpcode[ref] {
		case KindNull, KindReserved:
			return nil
		case KindBool, KindNat8, KindInt8:
			return s.skip(1)
		case KindNat16, KindInt16:
			return s.skip(2)
		case KindNat32, KindInt32, KindFloat32:
			return s.skip(4)
		case KindNat64, KindInt64, KindFloat64:
			return s.skip(8)
		case KindNat:
			if _, err := leb128.DecodeUnsigned(s.r); err != nil {
				return errUnexpectedEOF
			}
			return nil
		case KindInt:
			if _, err := leb128.DecodeSigned(s.r); err != nil {
				return errUnexpectedEOF
			}
			return nil
		case KindText:
			return s.lengthPrefixed()
		case KindPrincipal:
			return s.reference()
		default:
			return errors.New("empty 类型没有值")
		}
	}

	e := s.table[ref]
	switch e.op {
	case opcodes[KindOpt]:
		flag, err := s.r.ReadByte()
		if err != nil {
			return errUnexpectedEOF
		}
		switch flag {
		case 0:
			return nil
		case 1:
			return s.value(e.refs[0])
		}
		return fmt.Errorf("非法的 opt 标记 %d", flag)
	case opcodes[KindVec]:
		n, err := s.uleb()
		if err != nil {
			return err
		}
		elem := e.refs[0]
		if s.zeroSized(elem, 0) {
			if n > maxZeroSizedVec {
				return fmt.Errorf("vec 长度 %d 超出上限", n)
			}
		} else if n > uint64(s.r.Len()) {
			return fmt.Errorf("vec 长度 %d 超出消息长度", n)
		}
		for i := uint64(0); i < n; i++ {
			if err := s.value(elem); err != nil {
				return fmt.Errorf("vec[%d]: %w", i, err)
			}
		}
		return nil
	case opcodes[KindRecord]:
		for _, child := range e.refs {
			if err := s.value(child); err != nil {
				return err
			}
		}
		return nil
	case opcodes[KindVariant]:
		idx, err := s.uleb()
		if err != nil {
			return err
		}
		if idx >= uint64(len(e.refs)) {
			return fmt.Errorf("variant 下标 %d 越界", idx)
		}
		return s.value(e.refs[idx])
	default:
		return s.reference()
	}
}
