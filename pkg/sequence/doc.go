// Package sequence flattens a sequence diagram's elaborated semantic
// tree (pkg/semantic) into the time-ordered event stream of §4.6: the
// shape the sequence layout engine walks to assign y-coordinates and
// activation-box extents. Unlike pkg/component's containment graph,
// there is no second resolution pass here — events carry bare Ids and
// the layout engine resolves them against the participants it has
// already laid out.
package sequence
