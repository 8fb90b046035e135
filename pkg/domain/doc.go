/*
Package domain contains the core data model of the Turing machine.

It defines the transition table, the evaluation outcome and the persisted run record.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Transition: One immutable rule, (from, read) -> (write, move, to).
  - Table: The ordered rule set with its start state and accepting states.
  - Outcome: The classification of one evaluation plus the final configuration.
  - Run: A persisted evaluation, as stored by the history adapters.
*/
package domain
