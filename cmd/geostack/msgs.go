package main

// Short messages (one-liners)
const (
	MsgRootShort = "Provision a local GeoNode development stack"
	MsgRootLong  = `geostack provisions a complete GeoNode development environment on a
Debian or Ubuntu host: OS packages, Docker Engine and the Compose plugin,
the geonode checkout, its generated .env file, the compose stack itself,
database credentials and the GeoServer admin password.

Every step is guarded by a probe or a sentinel, so re-running geostack
after a partial run repeats no completed work.`

	MsgUpShort = "Provision the stack end to end"
	MsgUpLong  = `Up runs the full provisioning sequence in order, skipping steps whose
effect is already present on the host. Must run as root through sudo.`
	MsgUpExample = `  sudo geostack up
  sudo geostack up --skip-client
  sudo geostack up --with-editor
  geostack up --dry-run`

	MsgStatusShort = "Show which steps are done and which are pending"
	MsgStatusLong  = `Status evaluates every step's probe and sentinel without changing the
host, and lists the compose services when the stack exists.`

	MsgDoctorShort = "Check the host before provisioning"
	MsgDoctorLong  = `Doctor runs read-only preflight checks: privileges, required tools and
the Docker daemon. It never changes the host.`

	MsgDownShort = "Stop the compose stack"
	MsgDownLong  = `Down stops the GeoNode compose stack. With --clear-state it also
forgets the run-once step records, so the next up repeats them.`

	MsgGenConfigShort = "Print or write the default configuration"
	MsgGenConfigLong  = `Genconfig renders the default configuration as TOML. With --write it
is saved as geostack.toml; an existing file is never overwritten.`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No changes were made"
	MsgRunComplete    = "\nProvisioning complete."
	MsgRunFailed      = "\nProvisioning aborted."
	MsgStackStopped   = "Compose stack stopped."
	MsgNoStack        = "No compose stack to stop."
	MsgStateCleared   = "Run-once step records cleared."
	MsgDoctorHealthy  = "\nAll checks passed."
	MsgDoctorFailures = "\nSome checks failed; fix them before running geostack up."
	MsgServicesHeader = "\nSERVICES:"
	MsgStepsHeader    = "STEPS:"
	MsgChecksHeader   = "CHECKS:"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview steps without executing them"
	MsgFlagForce      = "Re-run run-once steps even if already recorded"
	MsgFlagSkipClient = "Skip the mapstore client checkout and asset build"
	MsgFlagWithEditor = "Install the editor after provisioning"
	MsgFlagClearState = "Also forget the run-once step records"
	MsgFlagWrite      = "Write geostack.toml instead of printing it"
	MsgFlagOutput     = "Path of the written config file"
)
