package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"seo-content-go/pkg/document"
	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/storage"
)

// RunBrand writes the buyer persona, mission and values, SEO summary and SEO
// keywords, each prose document followed by an editor pass.
func (o *Orchestrator) RunBrand(ctx context.Context, company string) (*StageResult, error) {
	company, err := checkCompany(company)
	if err != nil {
		return nil, err
	}
	r := o.begin(StageBrand, company)
	return o.finish(ctx, r, o.runBrand(ctx, r, company))
}

func (o *Orchestrator) runBrand(ctx context.Context, r *run, company string) error {
	data, err := o.documentData(ctx, company)
	if err != nil {
		return err
	}

	data.BuyerPersona, err = o.generateAndEdit(ctx, r, TaskBuyerPersona, data, ArtifactBuyerPersona, ArtifactBuyerPersona)
	if err != nil {
		return err
	}
	data.MissionValues, err = o.generateAndEdit(ctx, r, TaskMissionStatement, data, ArtifactMissionValues, ArtifactMissionValues)
	if err != nil {
		return err
	}
	data.SEOSummary, err = o.generateAndEdit(ctx, r, TaskSEOSummary, data, ArtifactSEOSummary, ArtifactSEOSummary)
	if err != nil {
		return err
	}

	words, err := o.generate(ctx, r, TaskMagicWords, data)
	if err != nil {
		return err
	}
	return o.save(ctx, r, ArtifactSEOKeywords, words)
}

// ScoreKeywords stores the uploaded keyword exports as csv_file_N.csv, runs
// the scoring engine over them and writes the selection artifact.
func (o *Orchestrator) ScoreKeywords(ctx context.Context, uploads []Upload) (*KeywordRun, error) {
	r := o.begin(StageKeywords, "")
	out := &KeywordRun{}
	err := o.scoreKeywords(ctx, r, uploads, out)
	res, err := o.finish(ctx, r, err)
	if err != nil {
		return nil, err
	}
	out.StageResult = *res
	return out, nil
}

func (o *Orchestrator) scoreKeywords(ctx context.Context, r *run, uploads []Upload, out *KeywordRun) error {
	datasets := make([]keyword.Dataset, 0, len(uploads))
	for i, up := range uploads {
		source := keyword.SourceLabel(i)
		if err := o.uploads.Save(ctx, source+".csv", up.Data); err != nil {
			return fmt.Errorf("storing %s: %w", up.Name, err)
		}
		ds, err := keyword.ReadDataset(bytes.NewReader(up.Data), source, o.columns)
		if err != nil {
			return err
		}
		r.log.WithFields(map[string]interface{}{
			"source": source,
			"file":   up.Name,
			"rows":   len(ds.Rows),
		}).Debug("Keyword export read")
		datasets = append(datasets, ds)
	}

	res, err := o.engine.Run(datasets)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := keyword.WriteKeywords(&buf, res.Keywords()); err != nil {
		return err
	}
	if err := o.outputs.Save(ctx, ArtifactTopKeywords, buf.Bytes()); err != nil {
		return fmt.Errorf("saving %s: %w", ArtifactTopKeywords, err)
	}
	r.artifacts = append(r.artifacts, ArtifactTopKeywords)

	out.Selection = res
	out.CSV = buf.Bytes()
	return nil
}

// RunContent writes the topic clusters, website structure, brand voice, the
// home, about and services pages and the colour scheme. It needs the brand
// and keyword stages to have run.
func (o *Orchestrator) RunContent(ctx context.Context, company string) (*StageResult, error) {
	company, err := checkCompany(company)
	if err != nil {
		return nil, err
	}
	prior, err := o.requireArtifacts(ctx, StageContent)
	if err != nil {
		return nil, err
	}
	r := o.begin(StageContent, company)
	return o.finish(ctx, r, o.runContent(ctx, r, company, prior))
}

func (o *Orchestrator) runContent(ctx context.Context, r *run, company string, prior map[string]string) error {
	data, err := o.documentData(ctx, company)
	if err != nil {
		return err
	}
	data.BuyerPersona = prior[ArtifactBuyerPersona]
	data.TopKeywords = prior[ArtifactTopKeywords]
	data.MissionValues = prior[ArtifactMissionValues]

	steps := []struct {
		task Task
		name string
		dest *string
	}{
		{TaskTopicCluster, ArtifactTopicCluster, &data.TopicCluster},
		{TaskExtractKeywords, ArtifactKeywords, &data.Keywords},
		{TaskWebsiteStructure, ArtifactWebsiteStructure, &data.WebsiteStructure},
	}
	for _, s := range steps {
		text, err := o.generate(ctx, r, s.task, data)
		if err != nil {
			return err
		}
		if err := o.save(ctx, r, s.name, text); err != nil {
			return err
		}
		*s.dest = text
	}

	data.BrandVoice, err = o.generateAndEdit(ctx, r, TaskBrandVoice, data, ArtifactBrandVoice, ArtifactBrandVoice)
	if err != nil {
		return err
	}

	for _, p := range contentPages {
		structure, err := o.generate(ctx, r, p.extract, data)
		if err != nil {
			return err
		}
		pageData := data
		pageData.PageStructure = structure
		if _, err := o.generateAndEdit(ctx, r, p.draft, pageData, p.name, p.final); err != nil {
			return err
		}
	}

	colours, err := o.generate(ctx, r, TaskColourScheme, data)
	if err != nil {
		return err
	}
	return o.save(ctx, r, ArtifactColourScheme, colours)
}

// RunPillar rewrites the uploaded pillar page in the brand voice. It needs
// the content stage to have run and pillar_page.pdf to be uploaded.
func (o *Orchestrator) RunPillar(ctx context.Context, company string) (*StageResult, error) {
	company, err := checkCompany(company)
	if err != nil {
		return nil, err
	}
	prior, err := o.requireArtifacts(ctx, StagePillar)
	if err != nil {
		return nil, err
	}
	uploaded, err := o.uploads.Exists(ctx, document.PillarPage)
	if err != nil {
		return nil, err
	}
	if !uploaded {
		return nil, &MissingArtifactError{Stage: StagePillar, Name: document.PillarPage}
	}

	r := o.begin(StagePillar, company)
	return o.finish(ctx, r, o.runPillar(ctx, r, company, prior))
}

func (o *Orchestrator) runPillar(ctx context.Context, r *run, company string, prior map[string]string) error {
	data, err := o.documentData(ctx, company)
	if err != nil {
		return err
	}
	data.BrandVoice = prior[ArtifactBrandVoice]
	data.Keywords = prior[ArtifactKeywords]

	data.PillarPage, err = o.docs.Load(ctx, document.PillarPage)
	if err != nil {
		return fmt.Errorf("loading pillar page: %w", err)
	}

	_, err = o.generateAndEdit(ctx, r, TaskPillarPage, data, ArtifactPillarPage, ArtifactPillarPageFinal)
	return err
}

// BundleAll zips every stored artifact and stage bundle to w.
func (o *Orchestrator) BundleAll(ctx context.Context, w io.Writer) error {
	names, err := o.outputs.List(ctx)
	if err != nil {
		return err
	}
	members := make([]string, 0, len(names))
	for _, n := range names {
		if n != BundleAll {
			members = append(members, n)
		}
	}
	if len(members) == 0 {
		return &MissingArtifactError{Stage: "bundle", Name: "any artifact"}
	}

	var buf bytes.Buffer
	if err := storage.WriteBundle(ctx, o.outputs, members, &buf); err != nil {
		return err
	}
	if err := o.outputs.Save(ctx, BundleAll, buf.Bytes()); err != nil {
		return fmt.Errorf("saving %s: %w", BundleAll, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", BundleAll, err)
	}

	o.log.WithField("artifacts", len(members)).Info("All artifacts bundled")
	return nil
}

// IsPrerequisiteError reports whether err means an earlier stage must run
// first.
func IsPrerequisiteError(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}
