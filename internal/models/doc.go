// Package models defines the core domain models for the shared-expense ledger.
//
// # Stored Models
//
//   - User: registered account, identified by an integer ID and a unique email
//   - Group: set of members sharing expenses, reachable by a unique join code
//   - Membership: (group, user) pair; created on group creation or join-by-code
//   - Expense: an amount paid by one member on behalf of the group, immutable
//   - Split: one member's share of an Expense
//   - ChatMessage: group chat history
//
// # Derived Models
//
// The following are computed on demand from the expense history and never stored:
//   - MemberBalance: a member's paid/owed totals and signed net position
//   - SettlementTransaction: one payment in the simplified settle-up plan
//   - Activity: display row merging an expense with its splits
//
// # Money
//
// All amounts are decimal.Decimal values with at most two fractional digits.
// Floating point is never used for money.
package models
