/*
Package inventory is the boundary between findsimulator and the tools that
report installed simulators.

A Source hands out decoded, validated snapshots. The Decoder turns the wire
payload of `simctl list devices -j` and `simctl list pairs -j` (or the same
shape saved as YAML) into generic records, maps them onto DTOs and then onto
the domain model. Wire-format validation happens here and nowhere else.
*/
package inventory
