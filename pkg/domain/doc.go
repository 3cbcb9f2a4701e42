/*
Package domain contains the core domain models of the murmur chat narrative engine.

It defines the dialogue rows authored for each chat group, the per-group playback
Session, the playthrough-wide GlobalState counters and the Event stream the engine emits
for presentation layers. The package is kept pure and free of I/O.

# Key Entities

  - DialogueRow: one authored line of a chat group (NPC line, choice trigger or player option).
  - Session: the playback cursor and pending-choice state of one group.
  - GlobalState: the contradiction and suspicion counters mutated by accepted choices.
  - Event: an ordered presentation instruction (day separator, line, choice offer, diagnostics).
*/
package domain
