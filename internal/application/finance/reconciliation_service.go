package finance

import (
	"context"
	"errors"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// matchWindow is how far around a bank transaction's date the matcher looks
// for candidate payments
const matchWindow = 72 * time.Hour

// ReconciliationService imports bank statements and links their lines to the
// payment ledger
type ReconciliationService struct {
	bankTxnRepo finance.BankTransactionRepository
	matchRepo   finance.ReconciliationMatchRepository
	paymentRepo finance.PaymentRepository
	matcher     *finance.Matcher
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	bankTxnRepo finance.BankTransactionRepository,
	matchRepo finance.ReconciliationMatchRepository,
	paymentRepo finance.PaymentRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		bankTxnRepo: bankTxnRepo,
		matchRepo:   matchRepo,
		paymentRepo: paymentRepo,
		matcher:     finance.NewMatcher(matchWindow),
		txScope:     txScope,
		logger:      logger,
	}
}

// ImportBankTransactions loads statement lines. Lines whose reference was
// imported before are skipped, so re-uploading a statement is harmless.
func (s *ReconciliationService) ImportBankTransactions(ctx context.Context, req ImportBankTransactionsRequest) (*ImportBankTransactionsResponse, error) {
	txns := make([]*finance.BankTransaction, 0, len(req.Lines))
	for _, line := range req.Lines {
		txn, err := finance.NewBankTransaction(line.Reference, line.Amount, line.Currency,
			line.Description, line.TransactionDate)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	inserted, err := s.bankTxnRepo.SaveBatch(ctx, txns)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank statement imported",
		zap.Int("received", len(req.Lines)),
		zap.Int("imported", inserted))

	return &ImportBankTransactionsResponse{
		Received: len(req.Lines),
		Imported: inserted,
		Skipped:  len(req.Lines) - inserted,
	}, nil
}

// RunMatching scores unmatched bank transactions against paid payments and
// links every candidate at or above the automatic threshold. Lower-scoring
// candidates are left unmatched for manual review.
func (s *ReconciliationService) RunMatching(ctx context.Context, filter shared.Filter) (*RunMatchingResponse, error) {
	page, err := s.bankTxnRepo.FindUnmatched(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &RunMatchingResponse{Matches: []MatchResponse{}}
	for _, bankTxn := range page.Items {
		resp.Scanned++

		from := bankTxn.TransactionDate.Add(-matchWindow)
		to := bankTxn.TransactionDate.Add(matchWindow)
		payments, err := s.paymentRepo.FindPaidBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		candidate := s.matcher.BestCandidate(bankTxn, payments)
		if candidate == nil {
			resp.NoMatches++
			continue
		}
		if candidate.Score.LessThan(finance.MatchThreshold) {
			resp.BelowBar++
			continue
		}

		match, err := s.link(ctx, bankTxn.ID, candidate.Payment, candidate.Score,
			finance.MatchStatusMatched, "auto-matcher", "")
		if err != nil {
			return nil, err
		}
		resp.Matched++
		resp.Matches = append(resp.Matches, ToMatchResponse(match))
	}

	s.logger.Info("reconciliation run finished",
		zap.Int("scanned", resp.Scanned),
		zap.Int("matched", resp.Matched),
		zap.Int("below_threshold", resp.BelowBar),
		zap.Int("no_candidates", resp.NoMatches))

	return resp, nil
}

// MatchManually links a bank transaction to a payment on operator authority.
// Manual matches carry score 1.0 and status MANUAL. Matching an already
// reconciled transaction records a correction: the earlier match is
// superseded and a new record is appended.
func (s *ReconciliationService) MatchManually(ctx context.Context, bankTransactionID uuid.UUID, req ManualMatchRequest) (*MatchResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != finance.PaymentStatusPaid {
		return nil, shared.NewDomainError("PAYMENT_NOT_PAID", "Only paid payments can be reconciled")
	}

	match, err := s.link(ctx, bankTransactionID, payment, decimal.NewFromInt(1),
		finance.MatchStatusManual, req.MatchedBy, req.Note)
	if err != nil {
		return nil, err
	}
	resp := ToMatchResponse(match)
	return &resp, nil
}

// link appends the match record and flips the bank transaction's status in
// one transaction. An existing active match is superseded first, so a
// corrected re-match extends the audit trail instead of overwriting it.
func (s *ReconciliationService) link(ctx context.Context, bankTransactionID uuid.UUID, payment *finance.Payment, score decimal.Decimal, status finance.MatchStatus, matchedBy, note string) (*finance.ReconciliationMatch, error) {
	var match *finance.ReconciliationMatch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bankTxn, err := repos.BankTransactionRepo().FindByID(ctx, bankTransactionID)
		if err != nil {
			return err
		}
		prior, err := repos.MatchRepo().FindActiveByBankTransactionID(ctx, bankTransactionID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if prior != nil {
			prior.Supersede()
			if err := repos.MatchRepo().Update(ctx, prior); err != nil {
				return err
			}
		}

		m, err := finance.NewReconciliationMatch(bankTransactionID, payment.ID, payment.OrderID,
			score, status, matchedBy, note)
		if err != nil {
			return err
		}
		if err := repos.MatchRepo().Save(ctx, m); err != nil {
			return err
		}

		bankTxn.Status = status
		if err := repos.BankTransactionRepo().Save(ctx, bankTxn); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// Unmatch retires a bank transaction's active match and returns the
// transaction to UNMATCHED. The superseded record stays on file.
func (s *ReconciliationService) Unmatch(ctx context.Context, bankTransactionID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		match, err := repos.MatchRepo().FindActiveByBankTransactionID(ctx, bankTransactionID)
		if err != nil {
			return err
		}
		bankTxn, err := repos.BankTransactionRepo().FindByID(ctx, match.BankTransactionID)
		if err != nil {
			return err
		}
		match.Supersede()
		if err := repos.MatchRepo().Update(ctx, match); err != nil {
			return err
		}
		bankTxn.Status = finance.MatchStatusUnmatched
		return repos.BankTransactionRepo().Save(ctx, bankTxn)
	})
}

// FindByOrder retrieves the reconciliation matches for an order
func (s *ReconciliationService) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]MatchResponse, error) {
	matches, err := s.matchRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, ToMatchResponse(m))
	}
	return responses, nil
}

// FindByBankTransaction retrieves the match trail for a bank transaction,
// newest first. Superseded records are included for auditing.
func (s *ReconciliationService) FindByBankTransaction(ctx context.Context, bankTransactionID uuid.UUID) ([]MatchResponse, error) {
	matches, err := s.matchRepo.FindByBankTransactionID(ctx, bankTransactionID)
	if err != nil {
		return nil, err
	}
	responses := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, ToMatchResponse(m))
	}
	return responses, nil
}

// ListUnmatched retrieves bank transactions awaiting reconciliation
func (s *ReconciliationService) ListUnmatched(ctx context.Context, filter shared.Filter) (*shared.Paginated[*finance.BankTransaction], error) {
	return s.bankTxnRepo.FindUnmatched(ctx, filter)
}
