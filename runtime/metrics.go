// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/yokaihunt/custody/metrics"

var (
	metricCallCount    = metrics.LazyLoadCounterVec("call_count", []string{"ledger", "op", "outcome"})
	metricCallDuration = metrics.LazyLoadHistogramVec("call_duration_ms", []string{"ledger"}, metrics.BucketOps)
	metricLedgerTotals = metrics.LazyLoadGaugeVec("ledger_totals", []string{"counter"})
)
