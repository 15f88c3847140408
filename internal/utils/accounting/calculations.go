package accounting

import (
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference still considered balanced.
var BalanceTolerance = decimal.NewFromFloat(0.005)

// ValidatePostingBalance checks that a posting has at least two lines, that every line
// carries exactly one positive side, and that debits equal credits.
func ValidatePostingBalance(lines []domain.PostingLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("posting must have at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if line.AccountCode == "" {
			return fmt.Errorf("line %d has no account code", i)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d on %s has a negative amount", i, line.AccountCode)
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return fmt.Errorf("line %d on %s must have exactly one of debit or credit", i, line.AccountCode)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if diff := totalDebit.Sub(totalCredit).Abs(); diff.GreaterThan(BalanceTolerance) {
		return fmt.Errorf("posting does not balance: debit %s, credit %s", totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	return nil
}

// BankPostingLines books a bank movement against a counter account.
// An inflow debits the bank account; an outflow credits it.
func BankPostingLines(bankAccountCode, counterAccountCode string, amount decimal.Decimal, description string) []domain.PostingLine {
	abs := amount.Abs()
	bank := domain.PostingLine{AccountCode: bankAccountCode, Debit: decimal.Zero, Credit: decimal.Zero, Description: description}
	counter := domain.PostingLine{AccountCode: counterAccountCode, Debit: decimal.Zero, Credit: decimal.Zero, Description: description}
	if amount.IsPositive() {
		bank.Debit = abs
		counter.Credit = abs
	} else {
		bank.Credit = abs
		counter.Debit = abs
	}
	return []domain.PostingLine{bank, counter}
}

// SignLike returns |amount| carrying the sign of reference.
func SignLike(amount, reference decimal.Decimal) decimal.Decimal {
	if reference.IsNegative() {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// SumAbs returns the sum of absolute values.
func SumAbs(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Abs())
	}
	return total
}

// ScaleToTotal scales pattern proportionally so that the rounded parts sum exactly to target.
// Each part is rounded to two decimals and the rounding residual lands on the last part.
// Returned parts are absolute values.
func ScaleToTotal(pattern []decimal.Decimal, target decimal.Decimal) ([]decimal.Decimal, error) {
	if len(pattern) == 0 {
		return nil, nil
	}
	base := SumAbs(pattern)
	if base.IsZero() {
		return nil, fmt.Errorf("cannot scale a pattern that sums to zero")
	}

	target = target.Abs().Round(2)
	factor := target.Div(base)
	parts := make([]decimal.Decimal, len(pattern))
	allocated := decimal.Zero
	for i, p := range pattern {
		parts[i] = p.Abs().Mul(factor).Round(2)
		allocated = allocated.Add(parts[i])
	}
	last := len(parts) - 1
	parts[last] = parts[last].Add(target.Sub(allocated))
	return parts, nil
}
