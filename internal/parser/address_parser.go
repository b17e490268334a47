package parser

import (
	"fmt"
	"strings"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/normalizer"
	"go.uber.org/zap"
)

// maxDebugCandidates số ứng viên đầu bảng được ghi log debug
const maxDebugCandidates = 5

// AddressParser phân giải text địa chỉ về các bản ghi tham chiếu.
// Chỉ đọc chỉ mục nên dùng chung được giữa nhiều goroutine.
type AddressParser struct {
	index      *gazetteer.Index
	normalizer *normalizer.TextNormalizer
	extractor  *WardExtractor
	scorer     *CandidateScorer
	ranker     *Ranker
	weights    Weights
	logger     *zap.Logger

	higherPrefixes []string
	stopWords      map[string]struct{}
	ignored        map[string]struct{} // tiền tố hành chính và từ dừng
}

// NewAddressParser tạo mới AddressParser
func NewAddressParser(idx *gazetteer.Index, weights Weights, logger *zap.Logger) (*AddressParser, error) {
	if idx == nil {
		return nil, fmt.Errorf("lỗi khởi tạo parser: thiếu chỉ mục tham chiếu")
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("lỗi khởi tạo parser: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	vocab := idx.Normalizer().Vocabulary()
	stopWords := make(map[string]struct{}, len(vocab.StopWords))
	ignored := make(map[string]struct{})
	for _, w := range vocab.StopWords {
		stopWords[w] = struct{}{}
		ignored[w] = struct{}{}
	}
	for _, w := range vocab.AdminPrefixes() {
		ignored[w] = struct{}{}
	}

	return &AddressParser{
		index:          idx,
		normalizer:     idx.Normalizer(),
		extractor:      NewWardExtractor(idx, weights.Extract),
		scorer:         NewCandidateScorer(idx, weights.Score),
		ranker:         NewRanker(weights.Refine),
		weights:        weights,
		logger:         logger,
		higherPrefixes: vocab.HigherAdminPrefixes,
		stopWords:      stopWords,
		ignored:        ignored,
	}, nil
}

// Index chỉ mục đang dùng
func (ap *AddressParser) Index() *gazetteer.Index { return ap.index }

// Normalize chuẩn hóa text theo đúng pipeline của parser
func (ap *AddressParser) Normalize(text string) string {
	return ap.normalizer.Normalize(text)
}

// Extract trích xuất cụm phường từ text thô
func (ap *AddressParser) Extract(text string) Extraction {
	return ap.extractor.Extract(ap.normalizer.Normalize(text))
}

// Resolve phân giải một địa chỉ. Không tìm thấy là kết quả bình thường, không phải lỗi.
func (ap *AddressParser) Resolve(text string) models.Resolution {
	return ap.ResolveNormalized(ap.normalizer.Normalize(text))
}

// ResolveNormalized phân giải input đã qua Normalize
func (ap *AddressParser) ResolveNormalized(normalized string) models.Resolution {
	res := models.Resolution{Normalized: normalized}

	coreWords, significant := ap.coreWords(normalized)
	if !significant {
		ap.logger.Debug("Input chỉ gồm số và từ dừng", zap.String("normalized", normalized))
		return noMatch(res)
	}

	ext := ap.extractor.Extract(normalized)
	res.WardPhrase = ext.WardPhrase
	res.HigherAdmin = ext.HigherAdmin

	req := &scoreRequest{
		input:      normalized,
		coreInput:  ap.normalizer.CoreName(normalized),
		coreWords:  coreWords,
		extraction: ext,
		explicit:   explicitHigherAdmin(ap.index, ap.higherPrefixes, normalized),
	}
	if ext.WardPhrase != "" {
		req.phrase = ap.normalizer.CleanName(ext.WardPhrase)
	}

	subset := selectCandidates(ap.index, req.phrase, req.explicit)
	cands := make([]Candidate, 0, len(subset))
	for _, e := range subset {
		cands = append(cands, ap.scorer.Score(e, req))
	}

	ap.logger.Debug("Trích xuất cụm phường",
		zap.String("normalized", normalized),
		zap.String("ward_phrase", ext.WardPhrase),
		zap.String("higher_admin", ext.HigherAdmin),
		zap.Bool("explicit", ext.Explicit),
		zap.Strings("explicit_higher_admin", req.explicit),
		zap.Int("candidates", len(cands)))

	winners := ap.ranker.Select(cands, req)
	ap.logTop(cands)

	if len(winners) == 0 {
		return noMatch(res)
	}

	res.Status = models.StatusMatched
	res.Records = make([]models.AddressRecord, len(winners))
	for i, c := range winners {
		res.Records[i] = c.Entry.Record
	}
	res.Message = fmt.Sprintf("Tìm thấy %d kết quả phù hợp nhất.", len(winners))
	return res
}

// coreWords token có nghĩa của input, không trùng lặp. significant = false khi
// input chỉ gồm số và từ dừng.
func (ap *AddressParser) coreWords(normalized string) ([]string, bool) {
	seen := make(map[string]struct{})
	var words []string
	significant := false
	for _, tok := range strings.Fields(normalized) {
		if _, stop := ap.stopWords[tok]; !stop && !normalizer.IsNumeric(tok) {
			significant = true
		}
		if _, skip := ap.ignored[tok]; skip {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		words = append(words, tok)
	}
	return words, significant
}

func (ap *AddressParser) logTop(cands []Candidate) {
	if !ap.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for i := 0; i < len(cands) && i < maxDebugCandidates; i++ {
		c := cands[i]
		ap.logger.Debug("Ứng viên đầu bảng",
			zap.Int("rank", i+1),
			zap.String("ward", c.Entry.Record.Ward),
			zap.String("district", c.Entry.Record.District),
			zap.String("province", c.Entry.Record.Province),
			zap.Int64("score", c.Score),
			zap.Bool("exact_ward", c.ExactWard),
			zap.Bool("exact_district", c.ExactDistrict),
			zap.Bool("exact_province", c.ExactProvince),
			zap.Int("core_words", c.CoreWords))
	}
}

func noMatch(res models.Resolution) models.Resolution {
	res.Status = models.StatusNoMatch
	res.Records = []models.AddressRecord{}
	res.Message = models.MessageNoMatch
	res.Warning = models.WarningNoMatch
	return res
}
