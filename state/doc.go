// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the persisted ledger records.
// It follows the flow as bellow:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	 [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	        |
//	  [ read cache ]
//	        |
//	    [ kv store ]
//
// Every ledger operation runs inside a checkpoint. A failed operation reverts
// to its checkpoint, a successful one is staged and written in a single batch.
package state
