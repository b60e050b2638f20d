// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/holdfast-network/holdfast/metrics"

var metricOpCount = metrics.LazyLoadCounterVec("staking_ops_total", []string{"op", "status"})

func meterOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "err"
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
}
