package voxfield

import (
	"fmt"
	"slices"
)

type State int

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

var defaultStages = []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}

type systemScheduleBuilder struct {
	inStage       Stage
	runAlways     bool
	inState       State
	inStatePhase  statePhase
	system        systemFn
	stateProvided bool
}

type stateScheduleBuilder struct {
	state  State
	phase  statePhase
	always bool
}

type statePhase int

const (
	enter   statePhase = 0
	execute statePhase = 1
	exit    statePhase = 2
)

func OnEnter(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: enter}
}

func OnExecute(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: execute}
}

func OnExit(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: exit}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.runAlways = s.always
	sched.inState = s.state
	sched.inStatePhase = s.phase
	sched.stateProvided = true
	return sched
}

func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.runAlways = true
	return sched
}

// System wraps a function whose pointer parameters are resolved from the
// app's resources on every call. It defaults to the Update stage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

// UseStage inserts a new stage next to an existing one. Stage names are
// unique.
func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	if app.stageIndex(stage.Name) != -1 {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}
	at := app.stageIndex(where.target.Name)
	if at == -1 {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if where.position == stageAfter {
		at++
	}

	app.stages = slices.Insert(app.stages, at, stage)
	app.initStatefulStage(stage)
	return app
}

// Stages lists stage names in execution order.
func (app *App) Stages() []string {
	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	return names
}

func (app *App) stageIndex(name string) int {
	return slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == name })
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	stage := system.inStage.Name
	if app.stageIndex(stage) == -1 {
		panic(fmt.Sprintf("Stage %v doesn't exist", stage))
	}

	if system.runAlways || !system.stateProvided {
		app.systemsStateless[stage] = append(app.systemsStateless[stage], system.system)
		return app
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}
	phases, ok := app.systems[stage][system.inState]
	if !ok {
		panic(fmt.Sprintf("State %v doesn't exist", system.inState))
	}
	phases[system.inStatePhase] = append(phases[system.inStatePhase], system.system)
	return app
}

// initStatefulStage prepares empty system lists for a stage in every state
// between the initial and final one.
func (app *App) initStatefulStage(stage Stage) {
	app.systemsStateless[stage.Name] = nil
	if !app.stateful {
		return
	}

	byState := make(map[State]map[statePhase][]systemFn, int(app.finalState-app.initialState)+1)
	for state := app.initialState; state <= app.finalState; state++ {
		byState[state] = map[statePhase][]systemFn{enter: nil, execute: nil, exit: nil}
	}
	app.systems[stage.Name] = byState
}
