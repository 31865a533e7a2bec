package envvar

const (
	// LookupModelEnv is the environment variable used to determine the environment
	LookupModelEnv = "LOOKUP_MODEL_ENV"

	// LookupModelConfig is the environment variable used to locate the config file
	LookupModelConfig = "LOOKUP_MODEL_CONFIG"

	// LookupModelGCSMount is the environment variable used to override the GCS FUSE mount root
	LookupModelGCSMount = "LOOKUP_MODEL_GCS_MOUNT"

	// LookupModelLogLevel is the environment variable used to override the log level
	LookupModelLogLevel = "LOOKUP_MODEL_LOG_LEVEL"

	// GoogleCloudProject is the environment variable holding the default Google Cloud project
	GoogleCloudProject = "GOOGLE_CLOUD_PROJECT"

	// GoogleCloudRegion is the environment variable holding the default Google Cloud region
	GoogleCloudRegion = "GOOGLE_CLOUD_REGION"
)
