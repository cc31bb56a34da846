// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage slots.
// It follows the flow as bellow:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	 [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	        |
//	   [ lru cache ]
//	        |
//	   [ kv store ]
//
// A State is short lived: one is opened per operation, mutated, then either
// staged and committed or dropped.
package state
