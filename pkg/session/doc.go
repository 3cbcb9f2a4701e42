/*
Package session implements the session registry: one playback Session per chat group, the
playthrough-wide counters and the active group.

Access to each group is serialized with reference-counted in-process locks. Hosts running
several replicas can add a ports.DistributedLocker so the same serialization holds across
processes.
*/
package session
