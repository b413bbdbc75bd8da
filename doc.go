/*
Package simcir is an event driven digital logic circuit simulator.

Devices (gates, switches, displays, composite circuits) own input and output
nodes. An output drives any number of inputs, an input is driven by at most one
output. Setting the value of an output pushes it synchronously to the inputs it
drives; each node whose value changes posts an event to a Queue. Draining the
queue delivers the events in batches: listeners run, devices whose inputs
changed recompute their outputs once per batch, which posts new events, until
the circuit settles or the drain budget is exhausted. Observers registered with
Node.Observe or Circuit.Watch are then notified once per changed node with its
final value.

Circuits are built from a Description, the persisted JSON (or YAML) format, and
a Registry of device types. Any circuit description can itself be registered
as a device type with Registry.RegisterCircuit: its In and Out devices become
the ports of the new composite device.

A minimal session:

	reg := simcir.NewRegistry()
	basicset.Register(reg)
	desc, _ := simcir.LoadFile("xor.json")
	c, err := simcir.NewCircuit(reg, desc)
	if err != nil {
		// handle error
	}
	defer c.Dispose()
	c.Watch("dev2.out0", func(v simcir.Value) { fmt.Println(v) })
	go c.Run(ctx)

*/
package simcir
