package voxfield

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Quit ends the run loop after the current frame.
func (cmd *Commands) Quit(reason string) {
	if q, ok := Resource[Quit](cmd.app); ok {
		q.Requested = true
		q.Reason = reason
	}
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
