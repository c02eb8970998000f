/*
Package domain contains the core data model of findsimulator.

It defines the read-only snapshots handed over by an inventory source and the
helpers that interpret them. The package is pure: it performs no I/O, never
invokes simctl and never decodes wire formats.

# Key Entities

  - RuntimeVersion: platform name and numeric OS version parsed from a runtime identifier.
  - Device: a single simulator instance as reported by the inventory.
  - RuntimeGroup: the devices installed for one runtime.
  - DevicePair: a phone/watch pairing with its own connection state.
  - Error: a value error carrying one of the failure kinds (no match, invalid selector, ...).
*/
package domain
