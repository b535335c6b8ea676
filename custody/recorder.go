// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/yokaihunt/custody/yokai"
)

// Recorder wraps a Service and keeps the transfers that succeeded through it.
type Recorder struct {
	svc       Service
	transfers []*Transfer
	created   []uint64
}

var _ Settler = (*Recorder)(nil)

func NewRecorder(svc Service) *Recorder {
	return &Recorder{svc: svc}
}

func (r *Recorder) CreateAsset(spec *AssetSpec) (uint64, error) {
	id, err := r.svc.CreateAsset(spec)
	if err != nil {
		return 0, err
	}
	r.created = append(r.created, id)
	return id, nil
}

func (r *Recorder) TransferAsset(assetID uint64, from, to yokai.Address, amount uint64) error {
	return r.Settle([]*Transfer{{AssetID: assetID, From: from, To: to, Amount: amount}})
}

func (r *Recorder) TransferPayment(from, to yokai.Address, amount uint64) error {
	return r.Settle([]*Transfer{{AssetID: PaymentAssetID, From: from, To: to, Amount: amount}})
}

func (r *Recorder) Settle(transfers []*Transfer) error {
	if err := Settle(r.svc, transfers); err != nil {
		return err
	}
	for _, t := range transfers {
		cpy := *t
		r.transfers = append(r.transfers, &cpy)
	}
	return nil
}

// Transfers returns the recorded transfers.
func (r *Recorder) Transfers() []*Transfer {
	return r.transfers
}

// Created returns the ids of the recorded asset creations.
func (r *Recorder) Created() []uint64 {
	return r.created
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.transfers = nil
	r.created = nil
}
