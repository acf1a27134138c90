// Package models defines the core domain models for the coffee shop dataset.
//
// # Relations
//
// The dataset is four relations plus one bookkeeping row:
//   - Product: the fixed catalog, seeded once per generation run
//   - Customer: the fixed pool of registered customers
//   - Transaction: one simulated sale, optionally attached to a Customer
//   - TransactionItem: one basket line of a Transaction
//   - GenerationRun: metadata describing the run that produced the dataset
//
// # Design Principles
//
// 1. **Integer identities**: IDs are assigned by the store, sequentially from 1
// 2. **Exact money**: all amounts are decimal.Decimal rounded to cents
// 3. **Avoid circular references**: relationships are ID fields, never pointers
// 4. **Immutable after write**: nothing is updated once persisted; regeneration replaces everything
package models
