// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/yokaihunt/custody/metrics"
)

var (
	metricQueryParameters   = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"type", "parameters"})
	metricQueryOrderCounter = metrics.LazyLoadCounterVec("logdb_query_order", []string{"type", "order"})
	metricOffsetBucket      = metrics.LazyLoadHistogramVec("logdb_query_offset_bucket", []string{"type"}, []int64{
		0, 1_000, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000, 500_000, 1_000_000,
	})
	metricLimitBucket = metrics.LazyLoadHistogramVec("logdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleReceiptFilter(filter *ReceiptFilter) {
	if !metrics.Enabled() {
		return
	}
	metricsHandleCommon(filter.Options, filter.Order, "receipt")

	paramsUsed := make([]string, 0, 4)
	if filter.AssetID != nil {
		paramsUsed = append(paramsUsed, "asset")
	}
	if filter.Caller != nil {
		paramsUsed = append(paramsUsed, "caller")
	}
	if filter.Ledger != "" {
		paramsUsed = append(paramsUsed, "ledger")
	}
	if filter.Operation != "" {
		paramsUsed = append(paramsUsed, "operation")
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"type": "receipt", "parameters": strings.Join(paramsUsed, ",")})
}

func metricsHandleTransferFilter(filter *TransferFilter) {
	if !metrics.Enabled() {
		return
	}
	metricsHandleCommon(filter.Options, filter.Order, "transfer")

	paramsUsed := make([]string, 0, 3)
	if filter.AssetID != nil {
		paramsUsed = append(paramsUsed, "asset")
	}
	if filter.Sender != nil {
		paramsUsed = append(paramsUsed, "sender")
	}
	if filter.Recipient != nil {
		paramsUsed = append(paramsUsed, "recipient")
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"type": "transfer", "parameters": strings.Join(paramsUsed, ",")})
}

func metricsHandleCommon(options *Options, order Order, queryType string) {
	if order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc", "type": queryType})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc", "type": queryType})
	}
	if options == nil {
		return
	}

	offset := options.Offset
	if offset > 1_000_000 {
		offset = 1_000_001
	}
	metricOffsetBucket().ObserveWithLabels(int64(offset), map[string]string{"type": queryType})

	limit := options.Limit
	if limit > 1000 {
		limit = 1001
	}
	metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": queryType})
}
