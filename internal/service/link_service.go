package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"linkwrap-platform/internal/clicks"
	"linkwrap-platform/internal/model"
	"linkwrap-platform/internal/shortcode"
	"linkwrap-platform/internal/store"
	"linkwrap-platform/internal/urlsafe"

	"go.uber.org/zap"
)

var (
	// ErrInvalidURL 目标链接不合法, 包装了 urlsafe 的具体错误
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidAlias 自定义短码格式不合法
	ErrInvalidAlias = errors.New("invalid custom alias")
	// ErrAliasTaken 自定义短码已被占用
	ErrAliasTaken = errors.New("custom alias already taken")
	// ErrInvalidPlatform 平台名过长
	ErrInvalidPlatform = errors.New("platform exceeds maximum length")
	// ErrInvalidOwner 所有者 ID 过长
	ErrInvalidOwner = errors.New("owner id exceeds maximum length")
	// ErrInvalidExpiry 有效期不是有限数值
	ErrInvalidExpiry = errors.New("invalid expiresInHours")
	// ErrCreateFailed 创建失败, 细节只写日志
	ErrCreateFailed = errors.New("failed to create wrapped link")
	// ErrNotFound 不存在或已过期, 两者对外不做区分
	ErrNotFound = errors.New("link not found")
)

// DefaultCreateRetries 随机短码冲突时的最大尝试次数
const DefaultCreateRetries = 5

// 与 wrapped_links 的列宽一致, 超长输入按请求错误处理而不是写库失败
const (
	MaxPlatformLength = 64
	MaxOwnerIDLength  = 64
)

// maxExpiresInHours 约 100 年, 防止时间溢出
const maxExpiresInHours = 24 * 365 * 100

// CreateInput 创建参数
type CreateInput struct {
	URL            string
	UserID         string
	CustomAlias    string
	Platform       string
	ExpiresInHours *float64
}

// Tracker 异步点击统计
type Tracker interface {
	Dispatch(ev clicks.Event)
}

// Options 服务依赖
type Options struct {
	Store      store.LinkStore
	Generator  shortcode.Source
	Classifier *Classifier
	Codec      urlsafe.Codec
	Tracker    Tracker
	Logger     *zap.SugaredLogger
	MaxRetries int
	// Now 测试时替换
	Now func() time.Time
}

// LinkService 短链包装与解析
type LinkService struct {
	store      store.LinkStore
	generator  shortcode.Source
	classifier *Classifier
	codec      urlsafe.Codec
	tracker    Tracker
	logger     *zap.SugaredLogger
	maxRetries int
	now        func() time.Time
}

// NewLinkService 创建服务实例
func NewLinkService(opts Options) *LinkService {
	s := &LinkService{
		store:      opts.Store,
		generator:  opts.Generator,
		classifier: opts.Classifier,
		codec:      opts.Codec,
		tracker:    opts.Tracker,
		logger:     opts.Logger,
		maxRetries: opts.MaxRetries,
		now:        opts.Now,
	}
	if s.classifier == nil {
		s.classifier = NewClassifier(nil, nil)
	}
	if s.codec == nil {
		s.codec = urlsafe.PlainCodec{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	s.logger = s.logger.Named("link_service")
	if s.maxRetries <= 0 {
		s.maxRetries = DefaultCreateRetries
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateWrappedLink 校验、分类并持久化一条新的短链
func (s *LinkService) CreateWrappedLink(ctx context.Context, in CreateInput) (*model.WrappedLink, error) {
	if err := urlsafe.ValidateURL(in.URL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if in.CustomAlias != "" {
		if err := urlsafe.ValidateAlias(in.CustomAlias); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAlias, err)
		}
	}

	if len(strings.TrimSpace(in.Platform)) > MaxPlatformLength {
		return nil, ErrInvalidPlatform
	}
	if len(in.UserID) > MaxOwnerIDLength {
		return nil, ErrInvalidOwner
	}

	now := s.now().UTC()
	var expiresAt *time.Time
	if in.ExpiresInHours != nil {
		hours := *in.ExpiresInHours
		if math.IsNaN(hours) || math.IsInf(hours, 0) || math.Abs(hours) > maxExpiresInHours {
			return nil, ErrInvalidExpiry
		}
		t := now.Add(time.Duration(hours * float64(time.Hour)))
		expiresAt = &t
	}

	stored, err := s.codec.Encode(in.URL)
	if err != nil {
		s.logger.Errorf("编码链接失败: %v", err)
		return nil, ErrCreateFailed
	}

	domain := urlsafe.Host(in.URL)
	category := Category(in.Platform, domain)
	link := &model.WrappedLink{
		OriginalURL: stored,
		Kind:        s.classifier.Classify(in.URL),
		Domain:      domain,
		Category:    category,
		TitleAlias:  TitleAlias(category, domain),
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if in.UserID != "" {
		uid := in.UserID
		link.OwnerUserID = &uid
	}

	if in.CustomAlias != "" {
		if err := s.createWithAlias(ctx, link, in.CustomAlias); err != nil {
			return nil, err
		}
	} else if err := s.createWithRandomID(ctx, link); err != nil {
		return nil, err
	}

	link.OriginalURL = in.URL
	s.logger.Infof("创建短链 %s kind=%s domain=%s", link.ShortID, link.Kind, link.Domain)
	return link, nil
}

func (s *LinkService) createWithAlias(ctx context.Context, link *model.WrappedLink, alias string) error {
	exists, err := s.store.Exists(ctx, alias)
	if err != nil {
		s.logger.Errorf("检查自定义短码失败: %v", err)
		return ErrCreateFailed
	}
	if exists {
		return ErrAliasTaken
	}

	link.ShortID = alias
	a := alias
	link.CustomAlias = &a
	if err := s.store.Create(ctx, link); err != nil {
		// 并发创建时以唯一约束为准
		if errors.Is(err, store.ErrDuplicateShortID) {
			return ErrAliasTaken
		}
		s.logger.Errorf("保存短链失败: %v", err)
		return ErrCreateFailed
	}
	return nil
}

// createWithRandomID 唯一约束冲突时换一个短码, 超过次数后失败
func (s *LinkService) createWithRandomID(ctx context.Context, link *model.WrappedLink) error {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		code, err := s.generator.Generate()
		if err != nil {
			s.logger.Errorf("生成短码失败: %v", err)
			return ErrCreateFailed
		}
		link.ShortID = code

		err = s.store.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicateShortID) {
			s.logger.Errorf("保存短链失败: %v", err)
			return ErrCreateFailed
		}
		s.logger.Warnf("短码冲突 %s, 第 %d 次重试", code, attempt)
		link.ID = 0
	}
	s.logger.Errorf("已尝试 %d 次生成短码, 均存在冲突", s.maxRetries)
	return ErrCreateFailed
}

// GetWrappedLink 不存在或已过期都返回 ErrNotFound; 存储故障原样向上返回
func (s *LinkService) GetWrappedLink(ctx context.Context, shortID string) (*model.WrappedLink, error) {
	link, err := s.store.FindByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.IsExpired(s.now()) {
		return nil, ErrNotFound
	}

	plain, err := s.codec.Decode(link.OriginalURL)
	if err != nil {
		return nil, fmt.Errorf("decode original url for %s: %w", shortID, err)
	}
	link.OriginalURL = plain
	return link, nil
}

// IncrementClickCount 投递后立即返回
func (s *LinkService) IncrementClickCount(shortID string) {
	s.TrackClick(clicks.Event{ShortID: shortID})
}

// TrackClick 投递带来源信息的点击事件, 不等待结果
func (s *LinkService) TrackClick(ev clicks.Event) {
	if s.tracker == nil {
		return
	}
	s.tracker.Dispatch(ev)
}

// Ping 健康检查
func (s *LinkService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
