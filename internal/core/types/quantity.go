package types

import "strconv"

// Quantity is a whole-unit stock quantity.
//
// Goods are tracked in integral units; fractional amounts are not part of
// the ledger model. Stored as BIGINT in PostgreSQL.
type Quantity int64

func NewQuantity(v int64) Quantity { return Quantity(v) }

func (q Quantity) Int64() int64 { return int64(q) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Add(other Quantity) Quantity { return q + other }

func (q Quantity) Sub(other Quantity) Quantity { return q - other }

func (q Quantity) String() string {
	return strconv.FormatInt(int64(q), 10)
}
