// Package wizard implements the active step controller: the state machine that
// owns the current step index and error state, validates a step before
// advancing, asks the animation package for transition geometry and exposes a
// snapshot the rendering layer repaints from.
//
// A Controller is created once per wizard instance. Rendering layers register
// steps as they mount, report values and measurements, and drive navigation:
//
//	ctrl := wizard.New(
//		wizard.WithSubmitHandler(handler),
//		wizard.WithObserver(func(evt wizard.Event) { repaint(evt) }),
//	)
//	defer ctrl.Close()
//
//	_ = ctrl.Register(model.Input{Name: "url", Rules: []model.ValidationRule{model.Rule("required")}})
//	ctrl.SetValue("url", "https://example.com")
//	ctrl.RequestNext()
//
// All operations are safe for concurrent use. Capabilities and observers are
// invoked without the controller lock held, so they may call back into it.
package wizard
