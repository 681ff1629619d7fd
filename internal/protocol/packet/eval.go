package packet

import (
	"fmt"
	"math/big"
)

var bigOne = big.NewInt(1)

// Evaluate computes the value of p. Arithmetic is arbitrary precision; use
// Uint64 to narrow the result.
func Evaluate(p Packet) (*big.Int, error) {
	switch p.Kind {
	case KindLiteral:
		if p.Value == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(p.Value), nil
	case KindOperator:
		return evaluateOperator(p)
	default:
		return nil, &StructuralError{Offset: p.Span.Start, Reason: fmt.Sprintf("unknown packet kind %s", p.Kind)}
	}
}

func evaluateOperator(p Packet) (*big.Int, error) {
	n := len(p.Children)
	switch {
	case p.Op.IsComparison() && n != 2:
		return nil, &StructuralError{
			Offset: p.Span.Start,
			Reason: fmt.Sprintf("%s requires exactly 2 operands, got %d", p.Op, n),
		}
	case (p.Op == OpMin || p.Op == OpMax) && n == 0:
		return nil, &StructuralError{
			Offset: p.Span.Start,
			Reason: fmt.Sprintf("%s requires at least 1 operand", p.Op),
		}
	}

	operands := make([]*big.Int, n)
	for i, child := range p.Children {
		v, err := Evaluate(child)
		if err != nil {
			return nil, err
		}
		operands[i] = v
	}

	switch p.Op {
	case OpSum:
		acc := new(big.Int)
		for _, v := range operands {
			acc.Add(acc, v)
		}
		return acc, nil
	case OpProduct:
		acc := new(big.Int).Set(bigOne)
		for _, v := range operands {
			acc.Mul(acc, v)
		}
		return acc, nil
	case OpMin:
		acc := operands[0]
		for _, v := range operands[1:] {
			if v.Cmp(acc) < 0 {
				acc = v
			}
		}
		return acc, nil
	case OpMax:
		acc := operands[0]
		for _, v := range operands[1:] {
			if v.Cmp(acc) > 0 {
				acc = v
			}
		}
		return acc, nil
	case OpGreater:
		return boolValue(operands[0].Cmp(operands[1]) > 0), nil
	case OpLess:
		return boolValue(operands[0].Cmp(operands[1]) < 0), nil
	case OpEqual:
		return boolValue(operands[0].Cmp(operands[1]) == 0), nil
	default:
		return nil, &StructuralError{Offset: p.Span.Start, Reason: fmt.Sprintf("unknown operator type %d", uint8(p.Op))}
	}
}

func boolValue(ok bool) *big.Int {
	if ok {
		return big.NewInt(1)
	}
	return new(big.Int)
}

// Uint64 narrows v, reporting values that need more than 64 bits.
func Uint64(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if !v.IsUint64() {
		return 0, &OverflowError{Value: v.String(), Width: 64}
	}
	return v.Uint64(), nil
}
