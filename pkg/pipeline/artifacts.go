package pipeline

// Stage is one independently runnable part of the pipeline.
type Stage string

const (
	StageBrand    Stage = "brand"
	StageKeywords Stage = "keywords"
	StageContent  Stage = "content"
	StagePillar   Stage = "pillar"
)

// Artifact names in the output store.
const (
	ArtifactBuyerPersona  = "buyer_persona.txt"
	ArtifactMissionValues = "mission_values.txt"
	ArtifactSEOSummary    = "seo_summarizer.txt"
	ArtifactSEOKeywords   = "seo_keywords.txt"

	ArtifactTopKeywords = "top_150_keywords.csv"

	ArtifactTopicCluster      = "topic_cluster_document.txt"
	ArtifactKeywords          = "keywords.txt"
	ArtifactWebsiteStructure  = "website_structure_document.txt"
	ArtifactBrandVoice        = "brand_voice.txt"
	ArtifactHomePage          = "home_page.txt"
	ArtifactHomePageFinal     = "home_page_final.txt"
	ArtifactAboutUsPage       = "about_us.txt"
	ArtifactAboutUsPageFinal  = "about_us_final.txt"
	ArtifactServicesPage      = "services_page.txt"
	ArtifactServicesPageFinal = "services_page_final.txt"
	ArtifactColourScheme      = "colour_scheme_output.txt"

	ArtifactPillarPage      = "pillar_page.txt"
	ArtifactPillarPageFinal = "pillar_page_final.txt"
)

// Bundle names.
const (
	BundleBrand   = "specific_outputs_brand.zip"
	BundleContent = "specific_outputs_content.zip"
	BundlePillar  = "specific_outputs_pillar.zip"
	BundleAll     = "all_files.zip"
)

type stageSpec struct {
	bundle   string
	members  []string
	requires []string
	steps    int
}

var stages = map[Stage]stageSpec{
	StageBrand: {
		bundle:  BundleBrand,
		members: []string{ArtifactBuyerPersona, ArtifactMissionValues, ArtifactSEOSummary, ArtifactSEOKeywords},
		steps:   7,
	},
	StageContent: {
		bundle: BundleContent,
		members: []string{
			ArtifactTopicCluster,
			ArtifactHomePage, ArtifactHomePageFinal,
			ArtifactAboutUsPage, ArtifactAboutUsPageFinal,
			ArtifactServicesPage, ArtifactServicesPageFinal,
			ArtifactColourScheme,
			ArtifactBrandVoice,
		},
		requires: []string{ArtifactBuyerPersona, ArtifactTopKeywords, ArtifactMissionValues},
		steps:    5 + 3*len(contentPages) + 1,
	},
	StagePillar: {
		bundle:  BundlePillar,
		members: []string{ArtifactPillarPage, ArtifactPillarPageFinal},
		requires: []string{
			ArtifactBuyerPersona, ArtifactTopKeywords, ArtifactMissionValues,
			ArtifactBrandVoice, ArtifactKeywords,
		},
		steps: 2,
	},
}

// BundleName returns the bundle a stage produces, or "" for stages without
// one.
func BundleName(stage Stage) string {
	return stages[stage].bundle
}
