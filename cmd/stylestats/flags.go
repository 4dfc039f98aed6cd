package main

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	Config               string `long:"config" short:"c" description:"YAML, JSON or TOML file holding the Parameters table"`
	Trace                string `long:"trace" short:"t" description:"Trace location, a path or a bucket URL (overrides Parameters.TraceFilePath)"`
	Pipeline             string `long:"pipeline" description:"Pipeline to run" choice:"multi" choice:"single"`
	FilterMode           string `long:"filter-mode" description:"Filter applied to the events of the multi thread pipeline (KeepMore or KeepLess); the single thread pipeline only accepts KeepMore"`
	SlowRejectVariant    string `long:"slow-reject" description:"Slow reject formula" choice:"excluding-matches" choice:"including-matches"`
	InvalidationTracking bool   `long:"invalidation-tracking" description:"Keep invalidation tracking events in the timeline"`
	Format               string `long:"format" short:"f" description:"Output format" choice:"csv" choice:"json"`
	Out                  string `long:"out" short:"o" description:"Directory receiving one file per table, standard output if empty"`
	Verbose              []bool `long:"verbose" short:"v" description:"Log more, can be repeated"`
}

// RunCommand writes every table.
type RunCommand struct {
	globals *GlobalFlags
}

// TimelineCommand writes the timeline table.
type TimelineCommand struct {
	globals *GlobalFlags
}

// SelectorsCommand writes the per selector tables.
type SelectorsCommand struct {
	globals *GlobalFlags
}
