// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundle

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/yokai"
)

// LegType is the kind of operation a leg performs.
type LegType uint8

const (
	LegAppCall LegType = iota + 1
	LegPayment
	LegAssetTransfer
)

var legTypeNames = map[LegType]string{
	LegAppCall:       "appcall",
	LegPayment:       "payment",
	LegAssetTransfer: "axfer",
}

func (t LegType) String() string {
	if name, ok := legTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("legtype(%d)", uint8(t))
}

func (t LegType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LegType) UnmarshalText(text []byte) error {
	for k, name := range legTypeNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}
	return errors.Errorf("unknown leg type %q", text)
}

// Leg is one co-submitted operation of a bundle.
//
// CloseTo is the address that would receive the sender's residual balance
// (payment) or residual asset holding (asset transfer). Clawback is the
// revocation target of an asset transfer. Both must be zero for a leg to move
// exactly what it declares.
type Leg struct {
	Type     LegType       `json:"type"`
	Sender   yokai.Address `json:"sender"`
	Receiver yokai.Address `json:"receiver"`
	Amount   uint64        `json:"amount"`
	AssetID  uint64        `json:"assetID"`
	CloseTo  yokai.Address `json:"closeTo"`
	Clawback yokai.Address `json:"clawback"`
	Method   string        `json:"method,omitempty"`
}

// AppCall creates the control leg of a bundle.
func AppCall(sender yokai.Address, method string) *Leg {
	return &Leg{Type: LegAppCall, Sender: sender, Method: method}
}

// Payment creates a payment leg.
func Payment(from, to yokai.Address, amount uint64) *Leg {
	return &Leg{Type: LegPayment, Sender: from, Receiver: to, Amount: amount}
}

// AssetTransfer creates an asset transfer leg.
func AssetTransfer(assetID uint64, from, to yokai.Address, amount uint64) *Leg {
	return &Leg{Type: LegAssetTransfer, Sender: from, Receiver: to, AssetID: assetID, Amount: amount}
}

// Copy returns a deep copy of the leg.
func (l *Leg) Copy() *Leg {
	cpy := *l
	return &cpy
}

func (l *Leg) String() string {
	switch l.Type {
	case LegAppCall:
		return fmt.Sprintf("appcall(%v, %s)", l.Sender, l.Method)
	case LegPayment:
		return fmt.Sprintf("payment(%v -> %v, %d)", l.Sender, l.Receiver, l.Amount)
	case LegAssetTransfer:
		return fmt.Sprintf("axfer(#%d, %v -> %v, %d)", l.AssetID, l.Sender, l.Receiver, l.Amount)
	}
	return l.Type.String()
}
