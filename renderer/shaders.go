package renderer

import "github.com/mossvale/scrollwall/panel"

// shaderSourceFor returns the WGSL source and entry points for a
// shader variant. Every fade variant samples exactly one of the three
// slot textures per draw, selected by the uniform slot index (spec
// §4.5): "A single geometry may emit up to three draws per frame."
func shaderSourceFor(v panel.ShaderVariant) (source, vsEntry, fsEntry string) {
	switch v {
	case panel.ShaderNone:
		return noneShader, "vs_main", "fs_main"
	case panel.ShaderFadeWhite:
		return fadeWhiteShader, "vs_main", "fs_main"
	case panel.ShaderFadeOut:
		return fadeOutShader, "vs_main", "fs_main"
	case panel.ShaderFadeIn:
		return fadeInShader, "vs_main", "fs_main"
	case panel.ShaderSlideBasic:
		return fadeBasicShader, "vs_main", "fs_main"
	default:
		return fadeBasicShader, "vs_main", "fs_main"
	}
}

const vertexCommon = `
struct Uniforms {
	pos_matrix: mat4x4<f32>,
	transform: vec4<f32>, // uv_scale.x, uv_scale.y, uv_offset.x, uv_offset.y
	extra: vec4<f32>,     // slot, alpha, strength, unused (None: background rgba)
};
@group(0) @binding(0) var<uniform> uniforms: Uniforms;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) uv: vec2<f32>) -> VertexOut {
	var out: VertexOut;
	out.position = uniforms.pos_matrix * vec4<f32>(pos, 0.0, 1.0);
	out.uv = uv * uniforms.transform.xy + uniforms.transform.zw;
	return out;
}
`

const noneShader = vertexCommon + `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return uniforms.extra;
}
`

// slotSample is shared by every fade variant's fragment body: it picks
// the slot's texture by the uniform slot index in uniforms.extra.x.
// Branching on a value that is constant across the whole draw call is
// uniform control flow, so this is safe ahead of a textureSample with
// implicit derivatives.
const slotSample = `
@group(1) @binding(0) var tex_prev: texture_2d<f32>;
@group(1) @binding(1) var tex_cur: texture_2d<f32>;
@group(1) @binding(2) var tex_next: texture_2d<f32>;
@group(1) @binding(3) var samp: sampler;

fn sample_slot(uv: vec2<f32>) -> vec4<f32> {
	let slot = uniforms.extra.x;
	if (slot < 0.5) {
		return textureSample(tex_prev, samp, uv);
	} else if (slot < 1.5) {
		return textureSample(tex_cur, samp, uv);
	}
	return textureSample(tex_next, samp, uv);
}
`

const fadeBasicShader = vertexCommon + slotSample + `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let alpha = uniforms.extra.y;
	let color = sample_slot(in.uv);
	return vec4<f32>(color.rgb, color.a * alpha);
}
`

const fadeWhiteShader = vertexCommon + slotSample + `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let alpha = uniforms.extra.y;
	let strength = uniforms.extra.z;
	let color = sample_slot(in.uv);
	let white = vec3<f32>(1.0, 1.0, 1.0);
	let mixed = mix(color.rgb, white, (1.0 - alpha) * strength);
	return vec4<f32>(mixed, color.a * alpha);
}
`

// fadeOutShader darkens a slot toward black as its alpha falls, rather
// than simply letting it become transparent (an outgoing image fades
// to black, not to the panel behind it).
const fadeOutShader = vertexCommon + slotSample + `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let alpha = uniforms.extra.y;
	let strength = uniforms.extra.z;
	let color = sample_slot(in.uv);
	let black = vec3<f32>(0.0, 0.0, 0.0);
	let mixed = mix(color.rgb, black, (1.0 - alpha) * strength);
	return vec4<f32>(mixed, color.a * alpha);
}
`

// fadeInShader mirrors fadeOutShader: an incoming image rises out of
// black as its alpha climbs, instead of simply becoming opaque.
const fadeInShader = vertexCommon + slotSample + `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let alpha = uniforms.extra.y;
	let strength = uniforms.extra.z;
	let color = sample_slot(in.uv);
	let black = vec3<f32>(0.0, 0.0, 0.0);
	let mixed = mix(black, color.rgb, clamp(alpha * strength, 0.0, 1.0));
	return vec4<f32>(mixed, color.a * alpha);
}
`
