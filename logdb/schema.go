// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// receipt table of committed calls. seq orders receipts by commit.
const receiptTableSchema = `
CREATE TABLE IF NOT EXISTS receipt (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id BLOB(32) NOT NULL UNIQUE,
	ledger TEXT NOT NULL,
	operation TEXT NOT NULL,
	assetID INTEGER NOT NULL,
	caller BLOB(20) NOT NULL,
	timestamp INTEGER NOT NULL,
	reward BLOB(8),
	bundle BLOB
);

CREATE INDEX IF NOT EXISTS receiptAssetIndex ON receipt(assetID);
CREATE INDEX IF NOT EXISTS receiptCallerIndex ON receipt(caller);
CREATE INDEX IF NOT EXISTS receiptTimeIndex ON receipt(timestamp);
`

// transfer table of the custody movements of each receipt.
const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER NOT NULL,
	transferIndex INTEGER NOT NULL,
	assetID INTEGER NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(8) NOT NULL,
	PRIMARY KEY (seq, transferIndex)
);

CREATE INDEX IF NOT EXISTS transferAssetIndex ON transfer(assetID);
CREATE INDEX IF NOT EXISTS transferSenderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipientIndex ON transfer(recipient);
`
