/*
Package runtime implements the mode orchestrator: the state machine that keeps
exactly one control mode active and moves between modes at tick boundaries.

Fault priority is absolute. When the active mode reports loss of control, or
the previous tick overran its deadline, the orchestrator enters the safe mode
whatever the mode asked for. The safe mode then latches until Release.
*/
package runtime
