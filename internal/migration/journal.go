package migration

import (
	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
)

// inverseOp is one step of a journal of reversible mutations against the
// target suite and the installability tester (spec.md §9 "implement as a
// journal of inverse operations").
type inverseOp func(suite *archive.Suite, tester *core.InstallabilityTester)

// Transaction batches suite/tester mutations so they can be committed
// (journal discarded) or rolled back (journal replayed in reverse) as one
// unit (spec.md §4.7 "start_transaction").
type Transaction struct {
	suite   *archive.Suite
	tester  *core.InstallabilityTester
	journal []inverseOp
}

// StartTransaction opens a new Transaction over suite and tester.
func StartTransaction(suite *archive.Suite, tester *core.InstallabilityTester) *Transaction {
	return &Transaction{suite: suite, tester: tester}
}

// AddBinary installs bin into the suite and the tester, journaling its
// removal as the inverse. If a binary of the same (arch, name) already
// exists it is replaced, and its restoration is journaled instead.
func (tx *Transaction) AddBinary(bin *archive.BinaryPackage) {
	arch, name := bin.Architecture, bin.PkgID.Name
	previous, existed := tx.suite.GetBinary(arch, name)

	tx.suite.AddBinaryRecord(bin)
	tx.tester.AddBinary(bin.PkgID)

	if existed {
		prev := previous
		tx.journal = append(tx.journal, func(suite *archive.Suite, tester *core.InstallabilityTester) {
			tester.RemoveBinary(bin.PkgID)
			suite.AddBinaryRecord(prev)
			tester.AddBinary(prev.PkgID)
		})
	} else {
		tx.journal = append(tx.journal, func(suite *archive.Suite, tester *core.InstallabilityTester) {
			tester.RemoveBinary(bin.PkgID)
			suite.RemoveBinaryRecord(arch, name)
		})
	}
}

// RemoveBinary takes bin out of the suite and the tester, journaling its
// restoration as the inverse. A no-op if bin isn't currently present.
func (tx *Transaction) RemoveBinary(pkgID archive.BinaryPackageId) {
	bin, ok := tx.suite.GetBinary(pkgID.Arch, pkgID.Name)
	if !ok || bin.PkgID.PackageId != pkgID.PackageId {
		return
	}
	tx.suite.RemoveBinaryRecord(pkgID.Arch, pkgID.Name)
	tx.tester.RemoveBinary(pkgID)
	tx.journal = append(tx.journal, func(suite *archive.Suite, tester *core.InstallabilityTester) {
		suite.AddBinaryRecord(bin)
		tester.AddBinary(bin.PkgID)
	})
}

// Commit discards the journal, making every mutation permanent.
func (tx *Transaction) Commit() {
	tx.journal = nil
}

// Rollback replays the journal in reverse, undoing every mutation applied
// through this transaction.
func (tx *Transaction) Rollback() {
	for i := len(tx.journal) - 1; i >= 0; i-- {
		tx.journal[i](tx.suite, tx.tester)
	}
	tx.journal = nil
}
