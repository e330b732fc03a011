package pipeline

// Task is one generation call: the system instruction and the prompt it uses.
type Task struct {
	Name        string
	Instruction string
	Prompt      string
}

var (
	TaskBuyerPersona     = Task{Name: "buyer_persona", Instruction: "buyer_persona", Prompt: "buyer_persona"}
	TaskEnglishEditor    = Task{Name: "english_editor", Instruction: "english_editor", Prompt: "english_editor"}
	TaskMissionStatement = Task{Name: "mission_statement", Instruction: "mission_statement", Prompt: "mission_statement"}
	TaskSEOSummary       = Task{Name: "seo_summarizer", Instruction: "seo_summarizer", Prompt: "seo_summarizer"}
	TaskMagicWords       = Task{Name: "magic_words", Instruction: "magic_words", Prompt: "magic_words"}

	TaskTopicCluster        = Task{Name: "topic_cluster", Instruction: "topic_cluster", Prompt: "topic_cluster"}
	TaskExtractKeywords     = Task{Name: "extract_keywords", Instruction: "editor", Prompt: "extract_keywords"}
	TaskWebsiteStructure    = Task{Name: "website_structure", Instruction: "website_structure", Prompt: "website_structure"}
	TaskBrandVoice          = Task{Name: "brand_voice", Instruction: "brand_voice", Prompt: "brand_voice"}
	TaskExtractHomePage     = Task{Name: "extract_home_page", Instruction: "editor", Prompt: "extract_home_page"}
	TaskExtractAboutUs      = Task{Name: "extract_about_us", Instruction: "editor", Prompt: "extract_about_us"}
	TaskExtractServicesPage = Task{Name: "extract_services_page", Instruction: "editor", Prompt: "extract_services_page"}
	TaskHomePage            = Task{Name: "home_page", Instruction: "home_page", Prompt: "home_page"}
	TaskAboutUsPage         = Task{Name: "about_us_page", Instruction: "about_us", Prompt: "about_us"}
	TaskServicesPage        = Task{Name: "services_page", Instruction: "products_page", Prompt: "services_page"}
	TaskColourScheme        = Task{Name: "colour_scheme", Instruction: "colour_scheme", Prompt: "colour_scheme"}

	TaskPillarPage = Task{Name: "pillar_page", Instruction: "pillar_page", Prompt: "pillar_page"}
)

// AllTasks lists every task the orchestrator can run.
func AllTasks() []Task {
	return []Task{
		TaskBuyerPersona, TaskEnglishEditor, TaskMissionStatement, TaskSEOSummary, TaskMagicWords,
		TaskTopicCluster, TaskExtractKeywords, TaskWebsiteStructure, TaskBrandVoice,
		TaskExtractHomePage, TaskExtractAboutUs, TaskExtractServicesPage,
		TaskHomePage, TaskAboutUsPage, TaskServicesPage, TaskColourScheme,
		TaskPillarPage,
	}
}

// page pairs a structure extraction with the draft it feeds.
type page struct {
	extract Task
	draft   Task
	name    string
	final   string
}

var contentPages = []page{
	{extract: TaskExtractHomePage, draft: TaskHomePage, name: ArtifactHomePage, final: ArtifactHomePageFinal},
	{extract: TaskExtractAboutUs, draft: TaskAboutUsPage, name: ArtifactAboutUsPage, final: ArtifactAboutUsPageFinal},
	{extract: TaskExtractServicesPage, draft: TaskServicesPage, name: ArtifactServicesPage, final: ArtifactServicesPageFinal},
}
