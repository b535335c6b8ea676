// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/golang/snappy"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/yokai"
)

// ErrNotFound is returned when no receipt has the requested id.
var ErrNotFound = errors.New("receipt not found")

const receiptColumns = "seq, id, ledger, operation, assetID, caller, timestamp, reward, bundle"

type LogDB struct {
	path          string
	db            *sql.DB
	stmts         *statements
	driverVersion string
}

// statements are the fixed queries, prepared once per database.
type statements struct {
	insertReceipt  *sql.Stmt
	insertTransfer *sql.Stmt
	newestSeq      *sql.Stmt
	transfersOf    *sql.Stmt
}

func prepare(db *sql.DB) (*statements, error) {
	var (
		s   statements
		err error
	)
	for _, q := range []struct {
		stmt  **sql.Stmt
		query string
	}{
		{&s.insertReceipt, "INSERT INTO receipt(id, ledger, operation, assetID, caller, timestamp, reward, bundle) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"},
		{&s.insertTransfer, "INSERT INTO transfer(seq, transferIndex, assetID, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?)"},
		{&s.newestSeq, "SELECT MAX(seq) FROM receipt"},
		{&s.transfersOf, "SELECT assetID, sender, recipient, amount FROM transfer WHERE seq = ? ORDER BY transferIndex ASC"},
	} {
		if *q.stmt, err = db.Prepare(q.query); err != nil {
			s.close()
			return nil, errors.Wrapf(err, "prepare %q", q.query)
		}
	}
	return &s, nil
}

func (s *statements) close() {
	for _, stmt := range []*sql.Stmt{s.insertReceipt, s.insertTransfer, s.newestSeq, s.transfersOf} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps ":memory:" databases alive and writes serialized
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(receiptTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	stmts, err := prepare(db)
	if err != nil {
		return nil, err
	}
	driverVer, _, _ := sqlite3.Version()
	return &LogDB{path, db, stmts, driverVer}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmts.close()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert writes the receipt and its transfers in one transaction and assigns receipt.Seq.
func (db *LogDB) Insert(receipt *Receipt) error {
	return db.execInTx(func(tx *sql.Tx) error {
		var bundle []byte
		if len(receipt.Bundle) > 0 {
			bundle = snappy.Encode(nil, receipt.Bundle)
		}
		res, err := tx.Stmt(db.stmts.insertReceipt).Exec(
			receipt.ID.Bytes(),
			receipt.Ledger,
			receipt.Operation,
			sqlInt(receipt.AssetID),
			receipt.Caller.Bytes(),
			sqlInt(receipt.Timestamp),
			amountBytes(receipt.Reward),
			bundle,
		)
		if err != nil {
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		insertTransfer := tx.Stmt(db.stmts.insertTransfer)
		for i, t := range receipt.Transfers {
			if _, err := insertTransfer.Exec(
				seq,
				i,
				sqlInt(t.AssetID),
				t.From.Bytes(),
				t.To.Bytes(),
				amountBytes(t.Amount),
			); err != nil {
				return err
			}
		}
		receipt.Seq = uint64(seq)
		return nil
	})
}

// Get returns the receipt of the given bundle id.
func (db *LogDB) Get(ctx context.Context, id yokai.Bytes32) (*Receipt, error) {
	receipts, err := db.queryReceipts(ctx, "SELECT "+receiptColumns+" FROM receipt WHERE id = ?", id.Bytes())
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, ErrNotFound
	}
	return receipts[0], nil
}

// NewestSeq returns the seq of the last inserted receipt, zero for an empty db.
func (db *LogDB) NewestSeq() (uint64, error) {
	var seq sql.NullInt64
	if err := db.stmts.newestSeq.QueryRow().Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func appendRange(stmt string, args []any, column string, r *Range) (string, []any) {
	if r == nil {
		return stmt, args
	}
	args = append(args, sqlInt(r.From))
	stmt += " AND " + column + " >= ? "
	if r.To >= r.From {
		args = append(args, sqlInt(r.To))
		stmt += " AND " + column + " <= ? "
	}
	return stmt, args
}

func appendPage(stmt string, args []any, order Order, options *Options, columns string) (string, []any) {
	if order == DESC {
		stmt += " ORDER BY " + strings.ReplaceAll(columns, ",", " DESC,") + " DESC "
	} else {
		stmt += " ORDER BY " + strings.ReplaceAll(columns, ",", " ASC,") + " ASC "
	}
	if options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

// FilterReceipts returns receipts matching every given criteria.
func (db *LogDB) FilterReceipts(ctx context.Context, filter *ReceiptFilter) ([]*Receipt, error) {
	if filter == nil {
		return db.queryReceipts(ctx, "SELECT "+receiptColumns+" FROM receipt ORDER BY seq ASC")
	}
	metricsHandleReceiptFilter(filter)

	var args []any
	stmt := "SELECT " + receiptColumns + " FROM receipt WHERE 1"
	if filter.AssetID != nil {
		args = append(args, sqlInt(*filter.AssetID), sqlInt(*filter.AssetID))
		stmt += " AND (assetID = ? OR seq IN (SELECT seq FROM transfer WHERE assetID = ?)) "
	}
	if filter.Caller != nil {
		args = append(args, filter.Caller.Bytes())
		stmt += " AND caller = ? "
	}
	if filter.Ledger != "" {
		args = append(args, filter.Ledger)
		stmt += " AND ledger = ? "
	}
	if filter.Operation != "" {
		args = append(args, filter.Operation)
		stmt += " AND operation = ? "
	}
	if filter.AfterSeq > 0 {
		args = append(args, sqlInt(filter.AfterSeq))
		stmt += " AND seq > ? "
	}
	stmt, args = appendRange(stmt, args, "timestamp", filter.Range)
	stmt, args = appendPage(stmt, args, filter.Order, filter.Options, "seq")
	return db.queryReceipts(ctx, stmt, args...)
}

// FilterTransfers returns the custody movements matching every given criteria.
func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const selectTransfers = "SELECT t.seq, t.transferIndex, r.id, r.timestamp, t.assetID, t.sender, t.recipient, t.amount FROM transfer t JOIN receipt r ON r.seq = t.seq WHERE 1"
	if filter == nil {
		filter = &TransferFilter{}
	}
	metricsHandleTransferFilter(filter)

	var args []any
	stmt := selectTransfers
	if filter.AssetID != nil {
		args = append(args, sqlInt(*filter.AssetID))
		stmt += " AND t.assetID = ? "
	}
	if filter.Sender != nil {
		args = append(args, filter.Sender.Bytes())
		stmt += " AND t.sender = ? "
	}
	if filter.Recipient != nil {
		args = append(args, filter.Recipient.Bytes())
		stmt += " AND t.recipient = ? "
	}
	stmt, args = appendRange(stmt, args, "r.timestamp", filter.Range)
	stmt, args = appendPage(stmt, args, filter.Order, filter.Options, "t.seq,t.transferIndex")

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			index     uint32
			id        []byte
			timestamp int64
			assetID   int64
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(&seq, &index, &id, &timestamp, &assetID, &sender, &recipient, &amount); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			Seq:       uint64(seq),
			Index:     index,
			ReceiptID: yokai.BytesToBytes32(id),
			Timestamp: uint64(timestamp),
			Transfer: custody.Transfer{
				AssetID: uint64(assetID),
				From:    yokai.BytesToAddress(sender),
				To:      yokai.BytesToAddress(recipient),
				Amount:  bytesAmount(amount),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func (db *LogDB) queryReceipts(ctx context.Context, stmt string, args ...any) ([]*Receipt, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*Receipt
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			id        []byte
			ledger    string
			operation string
			assetID   int64
			caller    []byte
			timestamp int64
			reward    []byte
			bundle    []byte
		)
		if err := rows.Scan(
			&seq,
			&id,
			&ledger,
			&operation,
			&assetID,
			&caller,
			&timestamp,
			&reward,
			&bundle,
		); err != nil {
			return nil, err
		}
		receipt := &Receipt{
			Seq:       uint64(seq),
			ID:        yokai.BytesToBytes32(id),
			Ledger:    ledger,
			Operation: operation,
			AssetID:   uint64(assetID),
			Caller:    yokai.BytesToAddress(caller),
			Timestamp: uint64(timestamp),
			Reward:    bytesAmount(reward),
		}
		if len(bundle) > 0 {
			if receipt.Bundle, err = snappy.Decode(nil, bundle); err != nil {
				return nil, errors.Wrapf(err, "decode bundle of receipt %v", receipt.ID)
			}
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, receipt := range receipts {
		if receipt.Transfers, err = db.receiptTransfers(ctx, receipt.Seq); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (db *LogDB) receiptTransfers(ctx context.Context, seq uint64) ([]*custody.Transfer, error) {
	rows, err := db.stmts.transfersOf.QueryContext(ctx, int64(seq))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*custody.Transfer
	for rows.Next() {
		var (
			assetID   int64
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(&assetID, &sender, &recipient, &amount); err != nil {
			return nil, err
		}
		transfers = append(transfers, &custody.Transfer{
			AssetID: uint64(assetID),
			From:    yokai.BytesToAddress(sender),
			To:      yokai.BytesToAddress(recipient),
			Amount:  bytesAmount(amount),
		})
	}
	return transfers, rows.Err()
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
